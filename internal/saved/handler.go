package saved

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-parser-backend/internal/shared/server/middleware"
	"resume-parser-backend/internal/shared/server/respond"
)

// Handler serves the authenticated saved-resume endpoints.
type Handler struct {
	Service *Service
}

type saveRequest struct {
	ResumeData json.RawMessage `json:"resume_data"`
}

// SaveResume handles POST /api/save-resume.
func (h *Handler) SaveResume(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "Token is missing")
		return
	}

	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.ResumeData) == 0 {
		respond.Error(c, http.StatusBadRequest, "resume_data is required")
		return
	}

	resume, err := h.Service.Save(c.Request.Context(), userID, req.ResumeData)
	if err != nil {
		if errors.Is(err, ErrInvalidResume) {
			respond.Error(c, http.StatusBadRequest, "resume_data must be a JSON object")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Failed to save resume")
		return
	}
	respond.OK(c, gin.H{"resume_id": resume.ID})
}

// GetSavedResumes handles GET /api/get-saved-resumes.
func (h *Handler) GetSavedResumes(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "Token is missing")
		return
	}

	resumes, err := h.Service.List(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNoResumes) {
			respond.Error(c, http.StatusNotFound, "No saved resumes found")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "Failed to fetch saved resumes")
		return
	}
	respond.OK(c, gin.H{"resumes": resumes})
}
