package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/best-koder-ever/matchmaking-service/pkg/logger"
)

// HealthHandler reports process and database liveness. Unlike the teacher's
// health handler, there is no session cache, pub/sub, or rate-limit backing
// store specific to this service's health to probe — Redis here only backs
// the HTTP rate limiter, which fails open, so it is not load-bearing enough
// to gate readiness on.
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler builds a HealthHandler.
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Live handles GET /health/live — process liveness only.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
}

// Ready handles GET /health/ready — liveness plus a database ping.
func (h *HealthHandler) Ready(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err != nil {
		logger.Errorf("health check: failed to get sql.DB handle: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "database": "unavailable"})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		logger.Errorf("health check: database ping failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "database": "unavailable"})
		return
	}

	stats := sqlDB.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"database":  "available",
		"stats": gin.H{
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
		},
	})
}
