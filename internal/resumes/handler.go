package resumes

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-parser-backend/internal/artifacts"
	"resume-parser-backend/internal/shared/server/respond"
	"resume-parser-backend/internal/shared/telemetry"
)

// Handler serves the resume parsing endpoints.
type Handler struct {
	Coordinator *Coordinator
	Store       *artifacts.Store
}

// ParseResumes handles POST /parse-resumes: multipart field "files", one
// record per valid upload.
func (h *Handler) ParseResumes(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "No files provided")
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		respond.Error(c, http.StatusBadRequest, "No files provided")
		return
	}

	uploads, failed, closeAll := collectUploads(headers)
	defer closeAll()
	if len(uploads) == 0 && len(failed) == 0 {
		respond.Error(c, http.StatusBadRequest, "No valid files provided")
		return
	}

	results := failed
	if len(uploads) > 0 {
		batch, err := h.Coordinator.ProcessBatch(c.Request.Context(), uploads)
		if err != nil {
			if errors.Is(err, ErrNoValidFiles) {
				respond.Error(c, http.StatusBadRequest, "No valid files provided")
				return
			}
			respond.Error(c, http.StatusInternalServerError, err.Error())
			return
		}
		results = append(batch, failed...)
	}
	respond.JSON(c, http.StatusOK, gin.H{"results": results})
}

// collectUploads opens every named multipart part. A part that cannot be
// opened still yields an error record so the batch response stays one entry
// per submitted file.
func collectUploads(headers []*multipart.FileHeader) (uploads []Upload, failed []StructuredResume, closeAll func()) {
	var open []interface{ Close() error }
	closeAll = func() {
		for _, f := range open {
			f.Close()
		}
	}

	for _, hdr := range headers {
		if hdr.Filename == "" {
			continue
		}
		f, err := hdr.Open()
		if err != nil {
			telemetry.Error("resume.upload.open_failed", map[string]any{
				"filename": hdr.Filename,
				"error":    err.Error(),
			})
			failed = append(failed, ErrorRecord(hdr.Filename, "Failed to read uploaded file: "+err.Error()))
			continue
		}
		open = append(open, f)
		uploads = append(uploads, Upload{Name: hdr.Filename, Content: f})
	}
	return uploads, failed, closeAll
}

// GetParsedResume handles GET /get-parsed-resume: every processed record,
// newest first.
func (h *Handler) GetParsedResume(c *gin.Context) {
	records, err := h.Store.ListRecords()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to fetch resume data: "+err.Error())
		return
	}
	if len(records) == 0 {
		respond.Error(c, http.StatusNotFound, "No parsed resume data available")
		return
	}

	resumes := make([]json.RawMessage, 0, len(records))
	for _, rec := range records {
		resumes = append(resumes, rec.Data)
	}
	respond.JSON(c, http.StatusOK, gin.H{"resumes": resumes})
}
