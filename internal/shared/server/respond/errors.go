package respond

import (
	"github.com/gin-gonic/gin"

	"idea-analyzer/internal/shared/telemetry"
)

// Problem is the JSON body of non-page failures.
type Problem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Error aborts with a {"error": Problem} body. Client errors log at warn, the rest at error.
func Error(c *gin.Context, status int, code, message string, details any) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"path":       c.Request.URL.Path,
		"request_id": c.GetString(RequestIDKey),
	}
	if status < 500 {
		telemetry.Warn("http.rejected", fields)
	} else {
		fields["message"] = message
		telemetry.Error("http.error", fields)
	}

	c.AbortWithStatusJSON(status, gin.H{"error": Problem{Code: code, Message: message, Details: details}})
}
