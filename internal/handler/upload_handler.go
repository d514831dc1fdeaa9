package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"referly/internal/middleware"
	"referly/internal/repository"
	"referly/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadBytes = 10 << 20 // 10 MiB

type UploadHandler struct {
	cld      cloudinary.Client
	userRepo *repository.UserRepository
}

func NewUploadHandler(cld cloudinary.Client, userRepo *repository.UserRepository) *UploadHandler {
	return &UploadHandler{cld: cld, userRepo: userRepo}
}

// UploadAvatar sets the caller's profile picture.
func (h *UploadHandler) UploadAvatar(c *gin.Context) {
	if h.cld == nil {
		respondError(c, http.StatusServiceUnavailable, "UPLOADS_UNAVAILABLE", "uploads not configured")
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	if fh.Size > maxUploadBytes {
		badRequest(c, "file too large")
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer f.Close()
	userID := middleware.GetUserID(c)
	publicID := fmt.Sprintf("avatar_%d_%s", userID, uuid.NewString()[:8])
	url, _, err := h.cld.UploadImage(c.Request.Context(), f, "avatars", publicID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	u.AvatarURL = url
	if err := h.userRepo.Update(u); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"avatar_url": url})
}

var resumeExts = map[string]bool{".pdf": true, ".doc": true, ".docx": true}

// UploadResume stores the caller's resume document.
func (h *UploadHandler) UploadResume(c *gin.Context) {
	if h.cld == nil {
		respondError(c, http.StatusServiceUnavailable, "UPLOADS_UNAVAILABLE", "uploads not configured")
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	if fh.Size > maxUploadBytes {
		badRequest(c, "file too large")
		return
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !resumeExts[ext] {
		badRequest(c, "resume must be pdf, doc or docx")
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer f.Close()
	userID := middleware.GetUserID(c)
	publicID := fmt.Sprintf("resume_%d_%s%s", userID, uuid.NewString()[:8], ext)
	url, err := h.cld.UploadDocument(c.Request.Context(), f, "resumes", publicID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	u.ResumeURL = url
	if err := h.userRepo.Update(u); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"resume_url": url})
}
