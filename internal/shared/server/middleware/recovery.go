package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"idea-analyzer/internal/session"
	"idea-analyzer/internal/shared/server/respond"
	"idea-analyzer/internal/shared/telemetry"
)

const msgUnexpected = "❌ მოულოდნელი შეცდომა, სცადეთ თავიდან."

// Recovery turns a panic into a 500. Browsers get a short text page, other clients the
// JSON error envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			fields := map[string]any{
				"request_id": RequestIDFromContext(c),
				"panic":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
				"route":      c.FullPath(),
			}
			if sess := session.FromContext(c); sess != nil {
				fields["session"] = sess.Hash()
			}
			telemetry.Error("panic", fields)

			switch {
			case c.Writer.Written():
				c.Abort()
			case strings.Contains(c.GetHeader("Accept"), "text/html"):
				c.Abort()
				respond.Text(c, http.StatusInternalServerError, msgUnexpected)
			default:
				respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
			}
		}()
		c.Next()
	}
}
