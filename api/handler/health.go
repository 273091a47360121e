package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/minhash/cache"
	"github.com/use-agent/minhash/config"
	"github.com/use-agent/minhash/models"
	"github.com/use-agent/minhash/tokenize"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Health returns a handler for GET /api/v1/health.
//
// Reports the default signature parameters and degrades status when more
// batch jobs are running than there are batch workers.
func Health(cfg *config.Config, cc *cache.Cache, store *BatchStore, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		active := 0
		if store != nil {
			active = store.Active()
			if cfg.Batch.Workers > 0 && active > cfg.Batch.Workers {
				status = "degraded"
			}
		}

		var stats models.CacheStats
		if cc != nil {
			stats = cc.Stats()
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: Version,
			Defaults: models.HealthDefaults{
				Tokenizer:  cfg.MinHash.Tokenizer,
				Tokenizers: tokenize.Names,
				HashBit:    cfg.MinHash.HashBit,
				Seed:       cfg.MinHash.Seed,
				NumFuncs:   cfg.MinHash.NumFuncs,
			},
			Cache:         stats,
			ActiveBatches: active,
		})
	}
}
