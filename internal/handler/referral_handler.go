package handler

import (
	"referly/internal/middleware"
	"referly/internal/repository"
	"referly/internal/service"

	"github.com/gin-gonic/gin"
)

type ReferralHandler struct {
	referralSvc  *service.ReferralService
	referralRepo *repository.ReferralRepository
}

func NewReferralHandler(referralSvc *service.ReferralService, referralRepo *repository.ReferralRepository) *ReferralHandler {
	return &ReferralHandler{referralSvc: referralSvc, referralRepo: referralRepo}
}

type createReferralRequest struct {
	Company     string `json:"company" binding:"required"`
	RoleTitle   string `json:"role_title" binding:"required"`
	JobURL      string `json:"job_url"`
	Note        string `json:"note"`
	RewardCents int64  `json:"reward_cents" binding:"required"`
}

func (h *ReferralHandler) Create(c *gin.Context) {
	var req createReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "company, role_title and reward_cents are required")
		return
	}
	r, err := h.referralSvc.CreateRequest(middleware.GetUserID(c),
		req.Company, req.RoleTitle, req.JobURL, req.Note, req.RewardCents)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, r)
}

// ListOpen is the referral marketplace: open requests anyone can claim.
func (h *ReferralHandler) ListOpen(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.referralRepo.ListOpen(c.Query("company"), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *ReferralHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	r, err := h.referralRepo.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, r)
}

func (h *ReferralHandler) ListMine(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.referralRepo.ListByRequester(middleware.GetUserID(c), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

func (h *ReferralHandler) ListClaimed(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.referralRepo.ListByReferrer(middleware.GetUserID(c), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, list)
}

// Claim takes an open request and places the reward hold.
func (h *ReferralHandler) Claim(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	r, err := h.referralSvc.Claim(id, middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, r)
}

// Complete settles the hold and pays the referrer.
func (h *ReferralHandler) Complete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	r, err := h.referralSvc.Complete(id, middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, r)
}

// Cancel releases the hold; requester cancels for good, referrer backs out.
func (h *ReferralHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	r, err := h.referralSvc.Cancel(id, middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, r)
}
