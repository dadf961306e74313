package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"idea-analyzer/internal/shared/server/respond"
)

const (
	requestIDHeader    = "X-Request-Id"
	maxInboundIDLength = 128
)

// RequestID attaches a request ID to context and response header. A well-formed
// inbound X-Request-Id is kept so traces line up with the proxy in front.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" || len(id) > maxInboundIDLength || strings.ContainsAny(id, "\r\n") {
			id = uuid.NewString()
		}
		c.Set(respond.RequestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// RequestIDFromContext fetches the request ID stored by RequestID middleware.
func RequestIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(respond.RequestIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
