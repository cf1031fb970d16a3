package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reachforge/prospector/api/handler"
	"github.com/reachforge/prospector/api/middleware"
	"github.com/reachforge/prospector/config"
	"github.com/reachforge/prospector/discover"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// The health endpoint sits outside auth so monitoring probes always work.
func NewRouter(d *discover.Discoverer, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health endpoint, no auth required.
	v1.GET("/health", handler.Health(startTime))

	// Protected group: auth plus rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Discovery
	protected.POST("/discover", handler.PostDiscover(d, cfg.Discovery.RunTimeout))
	protected.GET("/discover/:id", handler.GetDiscover())

	// Query preview
	protected.POST("/query", handler.BuildQuery())

	return r
}
