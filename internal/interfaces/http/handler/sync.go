package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appshipping "github.com/omnia/backend/internal/application/shipping"
	"github.com/omnia/backend/internal/domain/shipping"
	"github.com/omnia/backend/internal/infrastructure/logger"
	"github.com/omnia/backend/internal/interfaces/http/dto"
)

// SyncService is the application port the sync endpoints drive.
type SyncService interface {
	Run(ctx context.Context, filter shipping.ActiveShipmentFilter) (*appshipping.SyncSummary, error)
	LastRun() (appshipping.RunReport, bool)
}

// SchedulerInfo describes the background sync loop for the status endpoint.
type SchedulerInfo struct {
	Enabled  bool
	Interval time.Duration
}

// SyncHandler handles manual sync triggering and sync status
type SyncHandler struct {
	service   SyncService
	scheduler SchedulerInfo
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(service SyncService, scheduler SchedulerInfo) *SyncHandler {
	return &SyncHandler{
		service:   service,
		scheduler: scheduler,
	}
}

// RegisterRoutes registers the sync endpoints
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.POST("/shipments", h.TriggerSync)
		sync.GET("/status", h.GetStatus)
	}
}

// TriggerSync runs one sync pass synchronously. Per-item vendor failures are
// part of a successful response; only a pipeline failure yields a 500.
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	filter := shipping.ActiveShipmentFilter{
		UserID: c.Query("user_id"),
	}

	summary, err := h.service.Run(c.Request.Context(), filter)
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("Shipment sync failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("SYNC_FAILED", err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(summary))
}

// SyncStatusResponse represents the sync status response
type SyncStatusResponse struct {
	SchedulerEnabled bool                   `json:"scheduler_enabled"`
	IntervalSeconds  int                    `json:"interval_seconds"`
	LastRun          *appshipping.RunReport `json:"last_run,omitempty"`
}

// GetStatus reports scheduler settings and the last completed pass
func (h *SyncHandler) GetStatus(c *gin.Context) {
	status := SyncStatusResponse{
		SchedulerEnabled: h.scheduler.Enabled,
		IntervalSeconds:  int(h.scheduler.Interval.Seconds()),
	}
	if report, ok := h.service.LastRun(); ok {
		status.LastRun = &report
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(status))
}
