package handler

import (
	"errors"
	"log"

	"referly/internal/domain"
	"referly/internal/middleware"
	"referly/internal/models"
	"referly/internal/repository"
	"referly/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ApplicationHandler struct {
	appRepo  *repository.ApplicationRepository
	jobRepo  *repository.JobRepository
	userRepo *repository.UserRepository
	notifSvc *service.NotificationService
}

func NewApplicationHandler(
	appRepo *repository.ApplicationRepository,
	jobRepo *repository.JobRepository,
	userRepo *repository.UserRepository,
	notifSvc *service.NotificationService,
) *ApplicationHandler {
	return &ApplicationHandler{appRepo: appRepo, jobRepo: jobRepo, userRepo: userRepo, notifSvc: notifSvc}
}

type applyRequest struct {
	CoverNote string `json:"cover_note"`
	ResumeURL string `json:"resume_url"`
}

// Apply submits an application to an open job. One per user per job.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		badRequest(c, "invalid body")
		return
	}
	j, err := h.jobRepo.GetByID(jobID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if j.Status != domain.JobStatusOpen {
		respondError(c, 409, "JOB_CLOSED", "job is no longer open")
		return
	}
	userID := middleware.GetUserID(c)
	if j.EmployerID == userID {
		badRequest(c, "cannot apply to your own posting")
		return
	}
	if _, err := h.appRepo.GetByJobAndUser(jobID, userID); err == nil {
		respondError(c, 409, "ALREADY_EXISTS", "you already applied to this job")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondServiceError(c, err)
		return
	}
	resumeURL := req.ResumeURL
	if resumeURL == "" {
		if u, err := h.userRepo.GetByID(userID); err == nil {
			resumeURL = u.ResumeURL
		}
	}
	a := &models.Application{
		JobID:     jobID,
		UserID:    userID,
		ResumeURL: resumeURL,
		CoverNote: req.CoverNote,
		Status:    domain.ApplicationStatusApplied,
	}
	if err := h.appRepo.Create(a); err != nil {
		respondServiceError(c, err)
		return
	}
	if h.notifSvc != nil {
		if err := h.notifSvc.NotifyNewApplication(j.EmployerID, j.Title, j.ID); err != nil {
			log.Printf("[application] notify employer %d failed: %v", j.EmployerID, err)
		}
	}
	respondCreated(c, a)
}

// ListMine returns the caller's applications.
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	limit, offset := pagination(c)
	apps, err := h.appRepo.ListByUser(middleware.GetUserID(c), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, apps)
}

// ListForJob returns applications on the employer's own posting.
func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	j, err := h.jobRepo.GetByID(jobID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if j.EmployerID != middleware.GetUserID(c) {
		respondError(c, 403, "FORBIDDEN", "not your job posting")
		return
	}
	limit, offset := pagination(c)
	apps, err := h.appRepo.ListByJob(jobID, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, apps)
}

var applicationTransitions = map[string]bool{
	domain.ApplicationStatusReviewing: true,
	domain.ApplicationStatusOffered:   true,
	domain.ApplicationStatusRejected:  true,
}

// UpdateStatus moves an application through the employer's pipeline.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	appID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}
	if !applicationTransitions[req.Status] {
		badRequest(c, "status must be REVIEWING, OFFERED or REJECTED")
		return
	}
	a, err := h.appRepo.GetByID(appID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	j, err := h.jobRepo.GetByID(a.JobID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if j.EmployerID != middleware.GetUserID(c) {
		respondError(c, 403, "FORBIDDEN", "not your job posting")
		return
	}
	a.Status = req.Status
	if err := h.appRepo.Update(a); err != nil {
		respondServiceError(c, err)
		return
	}
	if h.notifSvc != nil {
		if err := h.notifSvc.NotifyApplicationStatus(a.UserID, j.Title, a.Status, a.ID); err != nil {
			log.Printf("[application] notify applicant %d failed: %v", a.UserID, err)
		}
	}
	respondOK(c, a)
}
