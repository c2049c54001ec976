package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// HealthHandler reports liveness and database reachability
type HealthHandler struct {
	service string
	ping    func(ctx context.Context) error
}

// NewHealthHandler creates a health handler; ping may be nil
func NewHealthHandler(service string, ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{service: service, ping: ping}
}

// Check handles GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	status, database := "ok", "ok"
	code := http.StatusOK
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			log.WithField("component", "health").WithError(err).Warn("database ping failed")
			status, database = "degraded", "unreachable"
			code = http.StatusServiceUnavailable
		}
	}

	c.JSON(code, gin.H{
		"status":   status,
		"service":  h.service,
		"database": database,
	})
}
