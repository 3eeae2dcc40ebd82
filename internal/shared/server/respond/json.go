package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON body with the given status. Success payloads in this
// API are small envelopes like {"results": ...} or {"token": ...}; build
// them at the call site.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes a 200 JSON body.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}
