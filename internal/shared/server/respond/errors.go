package respond

import (
	"github.com/gin-gonic/gin"

	"resume-parser-backend/internal/shared/telemetry"
)

// Error sends an error response with the given status and logs it. The body
// shape is {"error": "<message>"}; the resume upload client keys off that
// single field.
func Error(c *gin.Context, status int, message string) {
	fields := map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
