package courier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/omnia/backend/internal/domain/shipping"
	"github.com/omnia/backend/internal/infrastructure/config"
)

// DelhiveryClient fetches tracking from the Delhivery API. The vendor exposes
// no batch endpoint, so waybills are fetched one call each through a bounded
// worker pool.
type DelhiveryClient struct {
	baseURL    string
	apiKey     string
	workers    int
	httpClient *http.Client
	logger     *zap.Logger
}

// NewDelhiveryClient creates a Delhivery client bound to one API key.
func NewDelhiveryClient(cfg config.DelhiveryConfig, creds shipping.Credentials, logger *zap.Logger) *DelhiveryClient {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}
	return &DelhiveryClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     strings.TrimSpace(creds.APIKey),
		workers:    workers,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logger.Named("delhivery"),
	}
}

// Courier returns the courier code this client handles
func (c *DelhiveryClient) Courier() shipping.CourierCode {
	return shipping.CourierDelhivery
}

// BatchLimit returns 0: the client fans out per-waybill calls itself
func (c *DelhiveryClient) BatchLimit() int {
	return 0
}

// FetchTrackingBatch fetches tracking for each waybill concurrently. The
// result slice preserves input order and always has one entry per waybill.
func (c *DelhiveryClient) FetchTrackingBatch(ctx context.Context, awbs []string) []shipping.TrackingResult {
	results := make([]shipping.TrackingResult, len(awbs))

	type job struct {
		idx int
		awb string
	}
	jobs := make(chan job)

	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.idx] = c.fetchOne(ctx, j.awb)
			}
		}()
	}

	for i, awb := range awbs {
		jobs <- job{idx: i, awb: awb}
	}
	close(jobs)
	wg.Wait()

	return results
}

func (c *DelhiveryClient) fetchOne(ctx context.Context, awb string) shipping.TrackingResult {
	result := shipping.TrackingResult{AWB: awb}

	reqURL := fmt.Sprintf("%s/api/v1/packages/json/?waybill=%s", c.baseURL, url.QueryEscape(awb))
	headers := map[string]string{
		"Authorization": "Token " + c.apiKey,
		"Accept":        "application/json",
	}

	status, body, err := getWithRetry(ctx, c.httpClient, reqURL, headers)
	if err != nil {
		c.logger.Warn("tracking fetch failed",
			zap.String("awb", awb),
			zap.Error(err))
		result.Err = err
		return result
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		result.Err = fmt.Errorf("%w: HTTP %d", ErrAuthFailed, status)
		return result
	}
	if status >= 400 {
		result.Err = fmt.Errorf("%w: HTTP %d", ErrVendorRequestFailed, status)
		return result
	}

	var parsed delhiveryTrackingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		result.Err = fmt.Errorf("%w: malformed response: %v", ErrVendorRequestFailed, err)
		return result
	}
	if len(parsed.ShipmentData) == 0 {
		result.Err = ErrNoTrackingData
		return result
	}

	shipment := parsed.ShipmentData[0].Shipment
	result.RawStatus = shipment.Status.Status
	result.Status = shipping.MapCourierStatus(shipping.CourierDelhivery, shipment.Status.Status)
	result.Location = shipment.Status.StatusLocation
	result.StatusAt = parseVendorTime(shipment.Status.StatusDateTime)
	result.RawPayload = body
	return result
}
