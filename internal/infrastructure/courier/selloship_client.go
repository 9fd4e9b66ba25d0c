package courier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/omnia/backend/internal/domain/shipping"
	"github.com/omnia/backend/internal/infrastructure/config"
)

// selloshipVendorBatchLimit is the hard per-call waybill limit of the vendor API
const selloshipVendorBatchLimit = 50

// SelloshipClient fetches tracking from the Selloship shipper API in batches
// of up to 50 waybills. Auth is a bearer token obtained by username/password
// exchange and cached in an injected TokenCache; a static API key, when
// present, is used as the bearer token directly.
type SelloshipClient struct {
	baseURL    string
	batchLimit int
	creds      shipping.Credentials
	tokens     *TokenCache
	httpClient *http.Client
	logger     *zap.Logger
}

// NewSelloshipClient creates a Selloship client bound to one credential set.
// The TokenCache is shared across clients so logins are reused.
func NewSelloshipClient(cfg config.SelloshipConfig, creds shipping.Credentials, tokens *TokenCache, logger *zap.Logger) *SelloshipClient {
	limit := cfg.BatchLimit
	if limit <= 0 || limit > selloshipVendorBatchLimit {
		limit = selloshipVendorBatchLimit
	}
	return &SelloshipClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		batchLimit: limit,
		creds:      creds,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logger.Named("selloship"),
	}
}

// Courier returns the courier code this client handles
func (c *SelloshipClient) Courier() shipping.CourierCode {
	return shipping.CourierSelloship
}

// BatchLimit returns the maximum waybills per call
func (c *SelloshipClient) BatchLimit() int {
	return c.batchLimit
}

// FetchTrackingBatch fetches tracking for up to BatchLimit waybills in one
// vendor call. Oversized batches fail every result with ErrBatchTooLarge
// rather than silently truncating; callers chunk before dispatching.
func (c *SelloshipClient) FetchTrackingBatch(ctx context.Context, awbs []string) []shipping.TrackingResult {
	results := make([]shipping.TrackingResult, len(awbs))
	for i, awb := range awbs {
		results[i] = shipping.TrackingResult{AWB: awb}
	}
	if len(awbs) == 0 {
		return results
	}
	if len(awbs) > c.batchLimit {
		c.failAll(results, fmt.Errorf("%w: %d waybills, limit %d", shipping.ErrBatchTooLarge, len(awbs), c.batchLimit))
		return results
	}

	token, err := c.bearerToken(ctx)
	if err != nil {
		c.failAll(results, err)
		return results
	}

	reqURL := fmt.Sprintf("%s/waybillDetails?waybills=%s", c.baseURL, url.QueryEscape(strings.Join(awbs, ",")))
	headers := map[string]string{
		"Authorization": "Bearer " + token,
		"Accept":        "application/json",
	}

	status, body, err := getWithRetry(ctx, c.httpClient, reqURL, headers)
	if err != nil {
		c.logger.Warn("waybill details fetch failed", zap.Int("batch", len(awbs)), zap.Error(err))
		c.failAll(results, err)
		return results
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		// Token may have been revoked server-side before its TTL lapsed
		c.tokens.Invalidate(c.tokenKey())
		c.failAll(results, fmt.Errorf("%w: HTTP %d", ErrAuthFailed, status))
		return results
	}
	if status >= 400 {
		c.failAll(results, fmt.Errorf("%w: HTTP %d", ErrVendorRequestFailed, status))
		return results
	}

	var parsed selloshipWaybillDetailsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.failAll(results, fmt.Errorf("%w: malformed response: %v", ErrVendorRequestFailed, err))
		return results
	}
	if !strings.EqualFold(parsed.Status, "SUCCESS") {
		reason := parsed.Message
		if reason == "" {
			reason = parsed.Reason
		}
		if reason == "" {
			reason = "vendor returned non-SUCCESS"
		}
		c.failAll(results, fmt.Errorf("%w: %s", ErrVendorRequestFailed, reason))
		return results
	}

	byWaybill := make(map[string]selloshipWaybillDetail, len(parsed.WaybillDetails))
	for _, detail := range parsed.WaybillDetails {
		if awb := strings.TrimSpace(detail.Waybill); awb != "" {
			byWaybill[awb] = detail
		}
	}

	for i := range results {
		detail, ok := byWaybill[strings.TrimSpace(results[i].AWB)]
		if !ok {
			results[i].Err = ErrNoTrackingData
			continue
		}
		payload, _ := json.Marshal(detail)
		results[i].RawStatus = detail.CurrentStatus
		results[i].Status = shipping.MapCourierStatus(shipping.CourierSelloship, detail.CurrentStatus)
		results[i].Location = detail.CurrentLocation
		results[i].StatusAt = parseVendorTime(detail.StatusDate)
		results[i].ForwardCost = detail.ForwardCost
		results[i].ReverseCost = detail.ReverseCost
		results[i].RawPayload = payload
	}
	return results
}

func (c *SelloshipClient) failAll(results []shipping.TrackingResult, err error) {
	for i := range results {
		results[i].Err = err
	}
}

func (c *SelloshipClient) tokenKey() string {
	if c.creds.HasLogin() {
		return c.creds.Username
	}
	return "apikey:" + c.creds.APIKey
}

// bearerToken returns the token to present: the static API key when
// configured, otherwise a cached or freshly exchanged login token.
func (c *SelloshipClient) bearerToken(ctx context.Context) (string, error) {
	if c.creds.HasAPIKey() {
		return c.creds.APIKey, nil
	}
	if !c.creds.HasLogin() {
		return "", shipping.ErrCourierNotConfigured
	}
	return c.tokens.GetOrRefresh(c.tokenKey(), func() (string, error) {
		return c.login(ctx)
	})
}

// login exchanges username/password for a bearer token. POST is never
// retried; a failed login surfaces immediately.
func (c *SelloshipClient) login(ctx context.Context) (string, error) {
	payload, err := json.Marshal(selloshipAuthRequest{
		Username: strings.TrimSpace(c.creds.Username),
		Password: c.creds.Password,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/authToken", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("courier: building auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrVendorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: HTTP %d", ErrAuthFailed, resp.StatusCode)
	}

	var parsed selloshipAuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: malformed auth response: %v", ErrAuthFailed, err)
	}
	if !strings.EqualFold(parsed.Status, "SUCCESS") || parsed.Token == "" {
		return "", fmt.Errorf("%w: login rejected", ErrAuthFailed)
	}
	return parsed.Token, nil
}
