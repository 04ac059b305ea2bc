package meta

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/verenigingen/membership-api/internal/config"
	"github.com/verenigingen/membership-api/internal/shared/cache"
	"github.com/verenigingen/membership-api/internal/shared/database"
)

// Handler serves the health endpoint.
type Handler struct {
	cfg   *config.Config
	db    *database.DB
	cache *cache.Client
}

func NewHandler(cfg *config.Config, db *database.DB, cache *cache.Client) *Handler {
	return &Handler{
		cfg:   cfg,
		db:    db,
		cache: cache,
	}
}

// Health checks service, database, and redis health. Redis being down is
// reported but does not make the service unhealthy: drafts and rate limiting
// degrade, applications still go through.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	start := time.Now()
	if err := h.db.HealthCheck(ctx); err != nil {
		slog.Error("health check failed", "error", err)

		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"service": gin.H{
				"name":        h.cfg.App.Name,
				"environment": h.cfg.App.Env,
			},
			"checks": gin.H{
				"database": gin.H{
					"status": "down",
					"error":  err.Error(),
				},
			},
		})
		return
	}
	dbLatency := time.Since(start).Milliseconds()

	redisStatus := "up"
	if h.cache == nil {
		redisStatus = "disabled"
	} else if err := h.cache.HealthCheck(ctx); err != nil {
		slog.Warn("redis health check failed", "error", err)
		redisStatus = "down"
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"service": gin.H{
			"name":        h.cfg.App.Name,
			"environment": h.cfg.App.Env,
			"port":        h.cfg.App.Port,
		},
		"checks": gin.H{
			"database": gin.H{
				"status":     "up",
				"latency_ms": dbLatency,
			},
			"redis": gin.H{
				"status": redisStatus,
			},
		},
	})
}
