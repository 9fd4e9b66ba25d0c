package courier

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/omnia/backend/internal/domain/shipping"
	"github.com/omnia/backend/internal/infrastructure/config"
)

func newDelhiveryTestClient(serverURL string) *DelhiveryClient {
	return NewDelhiveryClient(
		config.DelhiveryConfig{
			BaseURL:        serverURL,
			Workers:        3,
			RequestTimeout: 5 * time.Second,
		},
		shipping.Credentials{Courier: shipping.CourierDelhivery, APIKey: "test-key"},
		zap.NewNop(),
	)
}

func delhiveryPayload(awb, status string) string {
	return fmt.Sprintf(`{
		"ShipmentData": [
			{
				"Shipment": {
					"AWB": %q,
					"Status": {
						"Status": %q,
						"StatusDateTime": "2026-08-20T11:30:00",
						"StatusLocation": "Delhi Hub"
					}
				}
			}
		]
	}`, awb, status)
}

func TestDelhiveryClient_FetchTrackingBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token test-key", r.Header.Get("Authorization"))
		awb := r.URL.Query().Get("waybill")
		switch awb {
		case "AWB1":
			fmt.Fprint(w, delhiveryPayload(awb, "Delivered"))
		case "AWB2":
			fmt.Fprint(w, delhiveryPayload(awb, "RTO-DEL"))
		default:
			fmt.Fprint(w, delhiveryPayload(awb, "In Transit"))
		}
	}))
	defer server.Close()

	client := newDelhiveryTestClient(server.URL)
	results := client.FetchTrackingBatch(context.Background(), []string{"AWB1", "AWB2", "AWB3"})

	require.Len(t, results, 3)
	assert.Equal(t, "AWB1", results[0].AWB)
	assert.Equal(t, shipping.ShipmentStatusDelivered, results[0].Status)
	assert.Equal(t, "Delivered", results[0].RawStatus)
	assert.Equal(t, "Delhi Hub", results[0].Location)
	require.NotNil(t, results[0].StatusAt)

	assert.Equal(t, shipping.ShipmentStatusRTODone, results[1].Status)
	assert.Equal(t, shipping.ShipmentStatusInTransit, results[2].Status)
	for _, r := range results {
		assert.NoError(t, r.Err)
		assert.NotEmpty(t, r.RawPayload)
	}
}

func TestDelhiveryClient_PartialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		awb := r.URL.Query().Get("waybill")
		if awb == "AWB_BAD" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, delhiveryPayload(awb, "Delivered"))
	}))
	defer server.Close()

	client := newDelhiveryTestClient(server.URL)
	results := client.FetchTrackingBatch(context.Background(), []string{"AWB_OK", "AWB_BAD"})

	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, shipping.ShipmentStatusDelivered, results[0].Status)
	assert.ErrorIs(t, results[1].Err, ErrVendorRequestFailed)
}

func TestDelhiveryClient_AuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newDelhiveryTestClient(server.URL)
	results := client.FetchTrackingBatch(context.Background(), []string{"AWB1"})

	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, ErrAuthFailed)
}

func TestDelhiveryClient_EmptyShipmentData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ShipmentData": []}`)
	}))
	defer server.Close()

	client := newDelhiveryTestClient(server.URL)
	results := client.FetchTrackingBatch(context.Background(), []string{"AWB1"})

	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, ErrNoTrackingData)
}

func TestDelhiveryClient_RetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, delhiveryPayload("AWB1", "Delivered"))
	}))
	defer server.Close()

	client := newDelhiveryTestClient(server.URL)
	results := client.FetchTrackingBatch(context.Background(), []string{"AWB1"})

	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, int32(2), calls.Load())
}
