package handler

import (
	"errors"

	"referly/internal/domain"
	"referly/internal/middleware"
	"referly/internal/models"
	"referly/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type JobHandler struct {
	jobRepo      *repository.JobRepository
	employerRepo *repository.EmployerRepository
}

func NewJobHandler(jobRepo *repository.JobRepository, employerRepo *repository.EmployerRepository) *JobHandler {
	return &JobHandler{jobRepo: jobRepo, employerRepo: employerRepo}
}

type createJobRequest struct {
	Title          string `json:"title" binding:"required"`
	Company        string `json:"company"`
	Location       string `json:"location"`
	Description    string `json:"description"`
	Skills         string `json:"skills"`
	SalaryMinCents int64  `json:"salary_min_cents"`
	SalaryMaxCents int64  `json:"salary_max_cents"`
}

func (h *JobHandler) Create(c *gin.Context) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "title is required")
		return
	}
	if req.SalaryMinCents < 0 || req.SalaryMaxCents < 0 ||
		(req.SalaryMaxCents > 0 && req.SalaryMaxCents < req.SalaryMinCents) {
		badRequest(c, "invalid salary range")
		return
	}
	employerID := middleware.GetUserID(c)
	company := req.Company
	if company == "" {
		if p, err := h.employerRepo.GetByUserID(employerID); err == nil {
			company = p.CompanyName
		}
	}
	if company == "" {
		badRequest(c, "company is required (or set up your employer profile)")
		return
	}
	j := &models.Job{
		EmployerID:     employerID,
		Title:          req.Title,
		Company:        company,
		Location:       req.Location,
		Description:    req.Description,
		Skills:         req.Skills,
		SalaryMinCents: req.SalaryMinCents,
		SalaryMaxCents: req.SalaryMaxCents,
		Status:         domain.JobStatusOpen,
	}
	if err := h.jobRepo.Create(j); err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, j)
}

// List is the public job board with optional query/location filters.
func (h *JobHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	f := repository.JobFilter{
		Query:    c.Query("q"),
		Location: c.Query("location"),
	}
	jobs, total, err := h.jobRepo.List(f, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"jobs": jobs, "total": total})
}

func (h *JobHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	j, err := h.jobRepo.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, j)
}

// ListMine returns the caller's own postings, any status.
func (h *JobHandler) ListMine(c *gin.Context) {
	limit, offset := pagination(c)
	employerID := middleware.GetUserID(c)
	jobs, total, err := h.jobRepo.List(repository.JobFilter{EmployerID: employerID}, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"jobs": jobs, "total": total})
}

type updateJobRequest struct {
	Title          *string `json:"title"`
	Location       *string `json:"location"`
	Description    *string `json:"description"`
	Skills         *string `json:"skills"`
	SalaryMinCents *int64  `json:"salary_min_cents"`
	SalaryMaxCents *int64  `json:"salary_max_cents"`
	Status         *string `json:"status"`
}

func (h *JobHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	j, err := h.jobRepo.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if j.EmployerID != middleware.GetUserID(c) {
		respondError(c, 403, "FORBIDDEN", "not your job posting")
		return
	}
	if req.Title != nil {
		j.Title = *req.Title
	}
	if req.Location != nil {
		j.Location = *req.Location
	}
	if req.Description != nil {
		j.Description = *req.Description
	}
	if req.Skills != nil {
		j.Skills = *req.Skills
	}
	if req.SalaryMinCents != nil {
		j.SalaryMinCents = *req.SalaryMinCents
	}
	if req.SalaryMaxCents != nil {
		j.SalaryMaxCents = *req.SalaryMaxCents
	}
	if req.Status != nil {
		if *req.Status != domain.JobStatusOpen && *req.Status != domain.JobStatusClosed {
			badRequest(c, "status must be OPEN or CLOSED")
			return
		}
		j.Status = *req.Status
	}
	if err := h.jobRepo.Update(j); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, j)
}

func (h *JobHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	err := h.jobRepo.Delete(id, middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, 404, "NOT_FOUND", "job not found or not yours")
			return
		}
		respondServiceError(c, err)
		return
	}
	respondMessage(c, 200, "job deleted", nil)
}
