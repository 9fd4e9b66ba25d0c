package shipping

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// Courier errors
// ---------------------------------------------------------------------------

var (
	// ErrCourierNotConfigured indicates no credentials exist for a (user, courier)
	// pair and no process-wide fallback is set. Callers treat this as a skip
	// condition, never as a fatal error.
	ErrCourierNotConfigured = errors.New("shipping: courier credentials not configured")
	// ErrUnknownCourier indicates a courier name that maps to no known courier
	ErrUnknownCourier = errors.New("shipping: unknown courier")
	// ErrBatchTooLarge indicates a tracking batch exceeds the vendor's per-call limit
	ErrBatchTooLarge = errors.New("shipping: tracking batch exceeds vendor limit")
)

// ---------------------------------------------------------------------------
// CourierCode
// ---------------------------------------------------------------------------

// CourierCode identifies a courier integration. Credentials and dispatch are
// keyed by this enum, not by the free-text courier name stored on shipments.
type CourierCode string

const (
	// CourierDelhivery is the Delhivery tracking integration
	CourierDelhivery CourierCode = "DELHIVERY"
	// CourierSelloship is the Selloship (Base shipper spec) integration
	CourierSelloship CourierCode = "SELLOSHIP"
)

// IsValid returns true if the courier code is known
func (c CourierCode) IsValid() bool {
	switch c {
	case CourierDelhivery, CourierSelloship:
		return true
	default:
		return false
	}
}

// String returns the string representation of CourierCode
func (c CourierCode) String() string {
	return string(c)
}

// ProviderID returns the lowercase provider identifier used for credential
// storage, matching the provider_credentials.provider_id column.
func (c CourierCode) ProviderID() string {
	return strings.ToLower(string(c))
}

// ParseCourierCode resolves a free-text courier name to a CourierCode.
// Shipments created by the labeling workflow carry vendor names in many
// spellings ("Delhivery Surface", "selloship"), so matching is a
// case-insensitive substring check against the known set. This tolerance
// exists only at this edge; everything past it works with the enum.
func ParseCourierCode(name string) (CourierCode, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.Contains(n, "delhivery"):
		return CourierDelhivery, nil
	case strings.Contains(n, "selloship"):
		return CourierSelloship, nil
	default:
		return "", ErrUnknownCourier
	}
}

// ---------------------------------------------------------------------------
// Credentials
// ---------------------------------------------------------------------------

// Credentials holds decrypted courier API credentials. Either APIKey is set,
// or Username+Password are set (Selloship token-exchange mode).
type Credentials struct {
	Courier  CourierCode
	APIKey   string
	Username string
	Password string
}

// HasAPIKey returns true if a static API key is available
func (c Credentials) HasAPIKey() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// HasLogin returns true if username/password token exchange is available
func (c Credentials) HasLogin() bool {
	return strings.TrimSpace(c.Username) != "" && c.Password != ""
}

// IsUsable returns true if at least one auth mode is available
func (c Credentials) IsUsable() bool {
	return c.HasAPIKey() || c.HasLogin()
}

// CredentialResolver resolves per-user courier credentials, falling back to
// process-wide defaults. Returns ErrCourierNotConfigured when neither exists.
type CredentialResolver interface {
	Resolve(ctx context.Context, userID string, courier CourierCode) (Credentials, error)
}

// ---------------------------------------------------------------------------
// CourierClient port
// ---------------------------------------------------------------------------

// TrackingResult is one courier's answer for one waybill. Vendor-reported
// failures (HTTP errors, unknown waybills, malformed payloads) are encoded in
// Err so a batch can partially succeed.
type TrackingResult struct {
	// AWB is the courier-assigned waybill the result belongs to
	AWB string
	// Status is the canonical status after normalization
	Status ShipmentStatus
	// RawStatus is the vendor's verbatim status string
	RawStatus string
	// Location is the vendor-reported current location, if any
	Location string
	// StatusAt is the vendor-reported status timestamp, if any
	StatusAt *time.Time
	// ForwardCost is the vendor-reported forward shipping cost, if exposed
	ForwardCost string
	// ReverseCost is the vendor-reported reverse (RTO) shipping cost, if exposed
	ReverseCost string
	// RawPayload is the vendor response fragment for this waybill (JSON)
	RawPayload []byte
	// Err is the per-item failure, nil on success
	Err error
}

// OK returns true if the result carries a usable status update
func (r TrackingResult) OK() bool {
	return r.Err == nil
}

// CourierClient is the port implemented by each courier integration.
// Implementations never return an error for ordinary vendor failures; those
// degrade individual results instead. The slice always has one entry per
// requested waybill.
type CourierClient interface {
	// Courier returns the courier code this client handles
	Courier() CourierCode
	// BatchLimit returns the maximum waybills per FetchTrackingBatch call,
	// or 0 when the client handles arbitrarily large batches itself.
	BatchLimit() int
	// FetchTrackingBatch fetches tracking for the given waybills
	FetchTrackingBatch(ctx context.Context, awbs []string) []TrackingResult
}
