package health

import (
	"github.com/gin-gonic/gin"

	"idea-analyzer/internal/shared/server/respond"
)

// Path is the liveness endpoint.
const Path = "/healthz"

// Service answers liveness checks.
type Service struct{}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{}
}

// Status returns the liveness body.
func (s *Service) Status() string {
	return "ok"
}

// RegisterRoutes attaches GET /healthz.
func (s *Service) RegisterRoutes(r gin.IRoutes) {
	r.GET(Path, func(c *gin.Context) {
		respond.OK(c, s.Status())
	})
}
