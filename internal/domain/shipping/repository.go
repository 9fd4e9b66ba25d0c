package shipping

import (
	"context"

	"github.com/google/uuid"
)

// ActiveShipmentFilter narrows the set of shipments loaded for a sync pass.
type ActiveShipmentFilter struct {
	// UserID scopes the pass to shipments whose orders belong to one user
	// (manual-trigger case); empty means all users.
	UserID string
}

// ShipmentWithOwner pairs a shipment with the user that owns its order, so
// the orchestrator can group by (user, courier) without per-shipment lookups.
type ShipmentWithOwner struct {
	Shipment Shipment
	// UserID is the owning user resolved via the order; may be empty when the
	// order has no user attribution.
	UserID string
}

// ShipmentRepository loads sync candidates and applies courier results.
type ShipmentRepository interface {
	// FindActive returns all non-terminal shipments with their owning users.
	// Terminal shipments (DELIVERED, RTO_DONE, LOST) are never returned.
	FindActive(ctx context.Context, filter ActiveShipmentFilter) ([]ShipmentWithOwner, error)

	// FindByOrderID returns the shipment for an order, or ErrShipmentNotFound.
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*Shipment, error)

	// ApplyResults persists a chunk of tracking results in one transaction:
	// for each (shipment, result) pair it updates status, costs and
	// last-synced-at, and upserts the shipment's single TrackingRecord.
	// A failure rolls back only this chunk; earlier chunks stay committed.
	ApplyResults(ctx context.Context, updates []ShipmentUpdate) error
}

// ShipmentUpdate is one shipment's pending write for ApplyResults.
type ShipmentUpdate struct {
	Shipment *Shipment
	Result   TrackingResult
}
