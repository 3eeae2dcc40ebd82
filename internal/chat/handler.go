package chat

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-parser-backend/internal/artifacts"
	"resume-parser-backend/internal/llm"
	"resume-parser-backend/internal/shared/server/respond"
	"resume-parser-backend/internal/shared/telemetry"
)

// Handler serves the resume chatbot endpoint.
type Handler struct {
	Store     *artifacts.Store
	Responder *Responder
	Factory   llm.Factory
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chatbot handles POST /chatbot: answers a question about the most recently
// parsed resume.
func (h *Handler) Chatbot(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		respond.Error(c, http.StatusBadRequest, "Message is required")
		return
	}

	record, ok, err := h.Store.Latest()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "Failed to fetch resume data: "+err.Error())
		return
	}
	if !ok {
		respond.Error(c, http.StatusNotFound, "No parsed resume data available")
		return
	}

	client, err := h.Factory(c.Request.Context())
	if err != nil {
		telemetry.Error("chat.client_init_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "Chat service unavailable")
		return
	}
	if closer, ok := client.(io.Closer); ok {
		defer closer.Close()
	}

	reply := h.Responder.Reply(c.Request.Context(), client, record.Data, req.Message)
	respond.JSON(c, http.StatusOK, gin.H{"reply": reply})
}
