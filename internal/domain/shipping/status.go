package shipping

// ---------------------------------------------------------------------------
// ShipmentStatus
// ---------------------------------------------------------------------------

// ShipmentStatus is the engine's canonical shipment state, independent of any
// courier's status vocabulary. Raw vendor strings never reach storage; they
// are normalized through MapCourierStatus first.
type ShipmentStatus string

const (
	// ShipmentStatusCreated indicates the shipment exists but has not been picked up
	ShipmentStatusCreated ShipmentStatus = "CREATED"
	// ShipmentStatusShipped indicates the courier has picked up the package
	ShipmentStatusShipped ShipmentStatus = "SHIPPED"
	// ShipmentStatusInTransit indicates the package is moving through the courier network
	ShipmentStatusInTransit ShipmentStatus = "IN_TRANSIT"
	// ShipmentStatusDelivered indicates successful delivery (terminal)
	ShipmentStatusDelivered ShipmentStatus = "DELIVERED"
	// ShipmentStatusRTOInitiated indicates the courier has started a return to origin
	ShipmentStatusRTOInitiated ShipmentStatus = "RTO_INITIATED"
	// ShipmentStatusRTODone indicates the return to origin completed (terminal)
	ShipmentStatusRTODone ShipmentStatus = "RTO_DONE"
	// ShipmentStatusLost indicates the courier lost the package (terminal)
	ShipmentStatusLost ShipmentStatus = "LOST"
	// ShipmentStatusCancelled indicates the shipment was cancelled before pickup
	ShipmentStatusCancelled ShipmentStatus = "CANCELLED"
)

// IsValid returns true if the status is a known canonical status
func (s ShipmentStatus) IsValid() bool {
	switch s {
	case ShipmentStatusCreated, ShipmentStatusShipped, ShipmentStatusInTransit,
		ShipmentStatusDelivered, ShipmentStatusRTOInitiated, ShipmentStatusRTODone,
		ShipmentStatusLost, ShipmentStatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of ShipmentStatus
func (s ShipmentStatus) String() string {
	return string(s)
}

// IsTerminal returns true for states after which no further polling occurs.
// Terminal shipments are permanently excluded from sync passes.
func (s ShipmentStatus) IsTerminal() bool {
	switch s {
	case ShipmentStatusDelivered, ShipmentStatusRTODone, ShipmentStatusLost:
		return true
	default:
		return false
	}
}

// TerminalStatuses returns the set of terminal statuses, in a stable order.
func TerminalStatuses() []ShipmentStatus {
	return []ShipmentStatus{ShipmentStatusDelivered, ShipmentStatusRTODone, ShipmentStatusLost}
}
