package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "idea-analyzer/internal/auth"
	"idea-analyzer/internal/ideas"
	"idea-analyzer/internal/services/health"
	"idea-analyzer/internal/session"
	"idea-analyzer/internal/shared/config"
	"idea-analyzer/internal/shared/metrics"
	"idea-analyzer/internal/shared/server/middleware"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config      config.Config
	Sessions    *session.Manager
	GoogleAuth  *googleauth.GoogleService
	Ideas       *ideas.Handler
	Health      *health.Service
	RateLimiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.SetHTMLTemplate(ideas.Templates())

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		metrics.Middleware(),
		deps.Sessions.Middleware(),
		middleware.RequireLogin(googleauth.LoginPath, middleware.PublicPaths...),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"SUBMIT": {Rate: deps.Config.RateLimitRPS, Burst: deps.Config.RateLimitBurst},
			},
			GroupFor: middleware.SubmitGroup,
			Limiter:  deps.RateLimiter,
		}),
	)

	r.StaticFS("/static", http.FS(ideas.StaticFS()))
	r.GET("/metrics", metrics.Handler())

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}
	healthSvc.RegisterRoutes(r)
	deps.GoogleAuth.RegisterRoutes(r)
	deps.Ideas.RegisterRoutes(r)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":10000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
