package courier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseSize is the maximum allowed vendor response size (10MB)
const maxResponseSize = 10 * 1024 * 1024

const (
	retryAttempts    = 2
	retryBackoffBase = time.Second
	retryBackoffMax  = 10 * time.Second
)

var (
	// ErrVendorUnavailable indicates a network-level failure reaching the vendor
	ErrVendorUnavailable = errors.New("courier: vendor unavailable")
	// ErrVendorRequestFailed indicates the vendor answered with an HTTP error
	ErrVendorRequestFailed = errors.New("courier: vendor request failed")
	// ErrNoTrackingData indicates the vendor had no data for a waybill
	ErrNoTrackingData = errors.New("courier: no tracking data for waybill")
	// ErrAuthFailed indicates vendor authentication was rejected
	ErrAuthFailed = errors.New("courier: vendor authentication failed")
)

// retryableStatus reports whether an HTTP status warrants a retry. Only
// transient upstream failures qualify; auth and client errors never do.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// getWithRetry performs an idempotent GET with bounded exponential backoff.
// Retries cover connection errors and 502/503/504 responses. The final
// response body is returned already read and size-capped.
func getWithRetry(ctx context.Context, client *http.Client, url string, headers map[string]string) (int, []byte, error) {
	var lastErr error
	for attempt := 0; attempt <= retryAttempts; attempt++ {
		if attempt > 0 {
			delay := retryBackoffBase << (attempt - 1)
			if delay > retryBackoffMax {
				delay = retryBackoffMax
			}
			select {
			case <-ctx.Done():
				return 0, nil, fmt.Errorf("%w: %v", ErrVendorUnavailable, ctx.Err())
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return 0, nil, fmt.Errorf("courier: building request: %w", err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", ErrVendorUnavailable, err)
			continue
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("%w: reading response: %v", ErrVendorUnavailable, readErr)
			continue
		}

		if retryableStatus(resp.StatusCode) && attempt < retryAttempts {
			lastErr = fmt.Errorf("%w: HTTP %d", ErrVendorRequestFailed, resp.StatusCode)
			continue
		}
		return resp.StatusCode, body, nil
	}
	return 0, nil, lastErr
}

// vendorTimeLayouts covers the timestamp formats couriers have been seen to emit
var vendorTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02-Jan-2006 15:04:05",
}

// parseVendorTime parses a vendor timestamp best-effort; nil when unparseable
func parseVendorTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range vendorTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}
