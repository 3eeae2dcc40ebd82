package jobs

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-parser-backend/internal/artifacts"
	"resume-parser-backend/internal/llm"
	"resume-parser-backend/internal/shared/telemetry"
)

// Handler serves job-match recommendations.
type Handler struct {
	Store       *artifacts.Store
	Recommender *Recommender
	Factory     llm.Factory
}

// JobMatches handles GET /job-matches. An optional resume_id query selects
// a stored record by filename fragment; otherwise the latest record is
// used. The response body is always a JSON array, even on failure.
func (h *Handler) JobMatches(c *gin.Context) {
	record, ok, err := h.selectRecord(c.Query("resume_id"))
	if err != nil {
		telemetry.Error("jobs.select_record_failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, []Recommendation{})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, []Recommendation{})
		return
	}

	client, err := h.Factory(c.Request.Context())
	if err != nil {
		telemetry.Error("jobs.client_init_failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, []Recommendation{})
		return
	}
	if closer, ok := client.(io.Closer); ok {
		defer closer.Close()
	}

	recs, err := h.Recommender.Recommend(c.Request.Context(), client, record.Data)
	if err != nil {
		telemetry.Error("jobs.recommend_failed", map[string]any{
			"record": record.Name,
			"error":  err.Error(),
		})
		c.JSON(http.StatusInternalServerError, []Recommendation{})
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *Handler) selectRecord(resumeID string) (artifacts.Record, bool, error) {
	if resumeID != "" {
		return h.Store.FindBySource(resumeID)
	}
	return h.Store.Latest()
}
