package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appshipping "github.com/omnia/backend/internal/application/shipping"
	"github.com/omnia/backend/internal/domain/shipping"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubSyncService struct {
	summary    *appshipping.SyncSummary
	err        error
	lastFilter shipping.ActiveShipmentFilter
	lastRun    *appshipping.RunReport
}

func (s *stubSyncService) Run(_ context.Context, filter shipping.ActiveShipmentFilter) (*appshipping.SyncSummary, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	return s.summary, nil
}

func (s *stubSyncService) LastRun() (appshipping.RunReport, bool) {
	if s.lastRun == nil {
		return appshipping.RunReport{}, false
	}
	return *s.lastRun, true
}

func setupSyncRouter(service SyncService, info SchedulerInfo) *gin.Engine {
	engine := gin.New()
	api := engine.Group("/api/v1")
	NewSyncHandler(service, info).RegisterRoutes(api)
	return engine
}

func TestSyncHandler_TriggerSync(t *testing.T) {
	t.Run("returns 200 with partial failures in the body", func(t *testing.T) {
		service := &stubSyncService{summary: &appshipping.SyncSummary{
			Synced: 49,
			Errors: []appshipping.SyncError{{AWB: "AWB0007", Reason: "HTTP 500"}},
		}}
		engine := setupSyncRouter(service, SchedulerInfo{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/shipments", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Success bool                    `json:"success"`
			Data    appshipping.SyncSummary `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, 49, body.Data.Synced)
		require.Len(t, body.Data.Errors, 1)
		assert.Equal(t, "AWB0007", body.Data.Errors[0].AWB)
	})

	t.Run("passes user scope from the query string", func(t *testing.T) {
		service := &stubSyncService{summary: &appshipping.SyncSummary{}}
		engine := setupSyncRouter(service, SchedulerInfo{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/shipments?user_id=user-9", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-9", service.lastFilter.UserID)
	})

	t.Run("returns 500 on pipeline failure", func(t *testing.T) {
		service := &stubSyncService{err: errors.New("connection refused")}
		engine := setupSyncRouter(service, SchedulerInfo{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/shipments", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusInternalServerError, w.Code)

		var body struct {
			Success bool `json:"success"`
			Error   struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "SYNC_FAILED", body.Error.Code)
	})
}

func TestSyncHandler_GetStatus(t *testing.T) {
	t.Run("without a completed run", func(t *testing.T) {
		service := &stubSyncService{}
		engine := setupSyncRouter(service, SchedulerInfo{Enabled: true, Interval: 30 * time.Minute})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/status", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data SyncStatusResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Data.SchedulerEnabled)
		assert.Equal(t, 1800, body.Data.IntervalSeconds)
		assert.Nil(t, body.Data.LastRun)
	})

	t.Run("with a completed run", func(t *testing.T) {
		service := &stubSyncService{lastRun: &appshipping.RunReport{
			StartedAt:  time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
			FinishedAt: time.Date(2024, 3, 15, 9, 1, 0, 0, time.UTC),
			Synced:     42,
			ErrorCount: 3,
		}}
		engine := setupSyncRouter(service, SchedulerInfo{Enabled: true, Interval: 30 * time.Minute})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/status", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data SyncStatusResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.NotNil(t, body.Data.LastRun)
		assert.Equal(t, 42, body.Data.LastRun.Synced)
		assert.Equal(t, 3, body.Data.LastRun.ErrorCount)
	})
}
