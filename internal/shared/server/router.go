package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobapp-generator/internal/applications"
	"jobapp-generator/internal/services/health"
	"jobapp-generator/internal/shared/config"
	"jobapp-generator/internal/shared/metrics"
	"jobapp-generator/internal/shared/server/middleware"
	"jobapp-generator/internal/shared/server/respond"
)

const generateGroup = "GENERATE"

// RouterDeps holds the handlers mounted by NewRouter.
type RouterDeps struct {
	Config              config.Config
	ApplicationsHandler *applications.Handler
	Health              *health.Service
	RateLimiter         *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "test" {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	limit := middleware.RateLimitConfig{
		GroupFor: groupFor,
		Limiter:  deps.RateLimiter,
		Rules: map[string]middleware.RateLimitRule{
			generateGroup: middleware.PerMinute(deps.Config.RateLimit.PerMinute, deps.Config.RateLimit.Burst),
		},
	}
	if deps.ApplicationsHandler != nil {
		limit.OnLimited = deps.ApplicationsHandler.RenderRateLimited
	}

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.RateLimit(limit),
	)

	if deps.ApplicationsHandler != nil {
		deps.ApplicationsHandler.RegisterPageRoutes(r)
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		respond.JSON(c, http.StatusOK, deps.Health.Status())
	})
	if deps.ApplicationsHandler != nil {
		deps.ApplicationsHandler.RegisterRoutes(api)
	}

	r.GET("/metrics", metrics.Handler())

	return r
}

// groupFor puts every request that triggers inference into the generate bucket.
func groupFor(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return ""
	}
	switch c.Request.URL.Path {
	case "/", "/api/v1/applications":
		return generateGroup
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
