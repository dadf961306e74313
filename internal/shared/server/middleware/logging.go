package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"idea-analyzer/internal/session"
	"idea-analyzer/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if sess := session.FromContext(c); sess != nil {
			fields["session"] = sess.Hash()
			fields["authenticated"] = sess.Authenticated()
		}
		if name := c.GetString(ArtifactKey); name != "" {
			fields["artifact"] = name
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		telemetry.Info("request.complete", fields)
	}
}

// ArtifactKey is the context key handlers set to the artifact file name they produced.
const ArtifactKey = "artifactName"
