package handlers

import (
	"context"
	"net/http"
	"time"

	"neowatch/internal/service"
	"neowatch/pkg/logger"

	"github.com/gin-gonic/gin"
)

// PingFunc reports whether a backing store answers.
type PingFunc func(ctx context.Context) error

// StatsFunc returns a snapshot of cache server statistics.
type StatsFunc func(ctx context.Context) (map[string]string, error)

type SystemHandler struct {
	asteroids  service.AsteroidService
	dbPing     PingFunc
	redisPing  PingFunc
	redisStats StatsFunc
	log        logger.Logger
}

// NewSystemHandler builds the health and stats endpoints. redisPing and
// redisStats are nil when redis is disabled.
func NewSystemHandler(
	asteroids service.AsteroidService,
	dbPing PingFunc,
	redisPing PingFunc,
	redisStats StatsFunc,
	log logger.Logger,
) *SystemHandler {
	return &SystemHandler{
		asteroids:  asteroids,
		dbPing:     dbPing,
		redisPing:  redisPing,
		redisStats: redisStats,
		log:        log,
	}
}

func (h *SystemHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := "ok"
	services := gin.H{"database": "connected", "redis": "disabled"}

	if err := h.dbPing(ctx); err != nil {
		h.log.Warn("Database ping failed", "error", err)
		services["database"] = "unavailable"
		status = "degraded"
	}

	if h.redisPing != nil {
		services["redis"] = "connected"
		if err := h.redisPing(ctx); err != nil {
			h.log.Warn("Redis ping failed", "error", err)
			services["redis"] = "unavailable"
			status = "degraded"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services":  services,
	})
}

func (h *SystemHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	count, err := h.asteroids.Count(ctx)
	if err != nil {
		h.log.Error("Failed to count asteroids", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	var redisStats interface{}
	if h.redisStats != nil {
		stats, err := h.redisStats(ctx)
		if err != nil {
			h.log.Warn("Failed to read redis stats", "error", err)
		} else {
			redisStats = stats
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"database": gin.H{"asteroids": count},
		"redis":    redisStats,
	})
}
