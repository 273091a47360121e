package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/minhash/api/handler"
	"github.com/use-agent/minhash/api/middleware"
	"github.com/use-agent/minhash/cache"
	"github.com/use-agent/minhash/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
// cc may be nil to disable the signature cache.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(cfg *config.Config, cc *cache.Cache, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	batches := handler.NewBatchStore(cfg.Batch.JobTTL)

	v1 := r.Group("/api/v1")

	// Health: no auth required.
	v1.GET("/health", handler.Health(cfg, cc, batches, startTime))

	// Protected group: auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Signatures
	protected.POST("/signature", handler.Signature(cfg, cc))
	protected.POST("/combine", handler.Combine(cfg))

	// Comparison
	protected.POST("/compare", handler.Compare())
	protected.POST("/similarity", handler.Similarity(cfg))

	// Batch
	protected.POST("/batch/signature", handler.PostBatch(cfg, batches))
	protected.GET("/batch/:id", handler.GetBatch(batches))

	return r
}
