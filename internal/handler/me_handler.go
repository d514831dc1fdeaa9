package handler

import (
	"referly/internal/middleware"
	"referly/internal/models"
	"referly/internal/repository"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	userRepo     *repository.UserRepository
	employerRepo *repository.EmployerRepository
}

func NewMeHandler(userRepo *repository.UserRepository, employerRepo *repository.EmployerRepository) *MeHandler {
	return &MeHandler{userRepo: userRepo, employerRepo: employerRepo}
}

func (h *MeHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if u.IsEmployer() {
		if p, err := h.employerRepo.GetByUserID(userID); err == nil {
			u.EmployerProfile = p
		}
	}
	respondOK(c, u)
}

type updateProfileRequest struct {
	FullName *string `json:"full_name"`
	Headline *string `json:"headline"`
}

func (h *MeHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if req.FullName != nil {
		u.FullName = *req.FullName
	}
	if req.Headline != nil {
		u.Headline = *req.Headline
	}
	if err := h.userRepo.Update(u); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, u)
}

type employerProfileRequest struct {
	CompanyName string `json:"company_name" binding:"required"`
	Website     string `json:"website"`
	About       string `json:"about"`
}

// UpsertEmployerProfile creates or updates the caller's company details.
func (h *MeHandler) UpsertEmployerProfile(c *gin.Context) {
	var req employerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "company_name is required")
		return
	}
	userID := middleware.GetUserID(c)
	p, err := h.employerRepo.GetByUserID(userID)
	if err != nil {
		p = &models.EmployerProfile{UserID: userID}
	}
	p.CompanyName = req.CompanyName
	p.Website = req.Website
	p.About = req.About
	if err := h.employerRepo.Upsert(p); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

// UpdateFCMToken stores the push token for this device.
func (h *MeHandler) UpdateFCMToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "token is required")
		return
	}
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	u.FCMToken = req.Token
	if err := h.userRepo.Update(u); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, 200, "token saved", nil)
}
