package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "requestId"

// Text writes a plain-text response with the given status.
func Text(c *gin.Context, status int, body string) {
	c.String(status, "%s", body)
}

// OK writes a 200 plain-text response.
func OK(c *gin.Context, body string) {
	Text(c, http.StatusOK, body)
}
