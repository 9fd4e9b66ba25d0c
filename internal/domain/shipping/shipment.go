package shipping

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrShipmentNotFound indicates the shipment does not exist
	ErrShipmentNotFound = errors.New("shipping: shipment not found")
)

// Shipment is the engine's view of one physical shipment. There is at most
// one active shipment per order. Created by the labeling workflow; mutated
// only by the sync pipeline and by manual correction tooling.
type Shipment struct {
	ID uuid.UUID
	// OrderID references the owning order (unique per order)
	OrderID uuid.UUID
	// CourierName is the free-text courier name as recorded at label time
	CourierName string
	// AWB is the courier-assigned waybill number
	AWB string
	// TrackingURL is the vendor's public tracking page, if known
	TrackingURL string
	// Status is the canonical status; authoritative over any TrackingRecord
	Status ShipmentStatus
	// ForwardCost is the forward shipping cost charged by the courier
	ForwardCost decimal.Decimal
	// ReverseCost is the reverse (RTO) shipping cost charged by the courier
	ReverseCost decimal.Decimal
	// ShippedAt is when the courier picked up the package
	ShippedAt *time.Time
	// LastSyncedAt is when this shipment was last polled
	LastSyncedAt *time.Time
	CreatedAt    time.Time
}

// IsTerminal returns true when the shipment needs no further polling
func (s *Shipment) IsTerminal() bool {
	return s.Status.IsTerminal()
}

// ApplyResult folds a successful tracking result into the shipment. Invalid
// or failed results leave the shipment unchanged.
func (s *Shipment) ApplyResult(result TrackingResult, now time.Time) bool {
	if !result.OK() {
		return false
	}
	if result.Status.IsValid() {
		s.Status = result.Status
	}
	if fc, err := decimal.NewFromString(result.ForwardCost); err == nil && fc.IsPositive() {
		s.ForwardCost = fc
	}
	if rc, err := decimal.NewFromString(result.ReverseCost); err == nil && rc.IsPositive() {
		s.ReverseCost = rc
	}
	s.LastSyncedAt = &now
	return true
}

// TrackingRecord is the single latest raw tracking snapshot per shipment,
// kept for audit and debugging. Shipment.Status stays authoritative; this
// record is never read back to drive state.
type TrackingRecord struct {
	ID         uuid.UUID
	ShipmentID uuid.UUID
	AWB        string
	// RawStatus is the vendor's verbatim status string
	RawStatus string
	// Status is the canonical status at the time of the snapshot
	Status ShipmentStatus
	// Location is the vendor-reported location, if any
	Location string
	// StatusAt is the vendor-reported status timestamp, if any
	StatusAt *time.Time
	// RawPayload is the vendor response blob (JSON)
	RawPayload []byte
	UpdatedAt  time.Time
	CreatedAt  time.Time
}

// NewTrackingRecord builds the latest tracking snapshot for a shipment from
// a courier result.
func NewTrackingRecord(shipmentID uuid.UUID, result TrackingResult) *TrackingRecord {
	return &TrackingRecord{
		ID:         uuid.New(),
		ShipmentID: shipmentID,
		AWB:        result.AWB,
		RawStatus:  result.RawStatus,
		Status:     result.Status,
		Location:   result.Location,
		StatusAt:   result.StatusAt,
		RawPayload: result.RawPayload,
	}
}
