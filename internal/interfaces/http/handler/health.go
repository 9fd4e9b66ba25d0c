package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/omnia/backend/internal/infrastructure/persistence"
	"github.com/omnia/backend/internal/interfaces/http/dto"
)

// DatabaseStatus is the connection surface the health endpoint inspects.
type DatabaseStatus interface {
	Ping(ctx context.Context) error
	Stats() (persistence.ConnectionStats, error)
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db DatabaseStatus
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db DatabaseStatus) *HealthHandler {
	return &HealthHandler{db: db}
}

// Healthz reports liveness including database connectivity and pool pressure
func (h *HealthHandler) Healthz(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse("DB_UNAVAILABLE", err.Error()))
		return
	}

	body := gin.H{"status": "ok"}
	if stats, err := h.db.Stats(); err == nil {
		body["db"] = stats
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(body))
}
