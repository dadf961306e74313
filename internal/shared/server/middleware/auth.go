package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"idea-analyzer/internal/session"
)

// PublicPaths lists the endpoints reachable without stored credentials.
var PublicPaths = []string{"/login", "/oauth2callback", "/logout", "/healthz", "/metrics"}

const staticPrefix = "/static/"

// RequireLogin redirects every request outside the allow-list to loginPath unless the
// session holds a credential set.
func RequireLogin(loginPath string, public ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(public))
	for _, p := range public {
		allowed[p] = struct{}{}
	}
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := allowed[path]; ok || strings.HasPrefix(path, staticPrefix) {
			c.Next()
			return
		}
		if sess := session.FromContext(c); sess.Authenticated() {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, loginPath)
		c.Abort()
	}
}
