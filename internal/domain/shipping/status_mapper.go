package shipping

import "strings"

// Per-courier raw status tables. Keys are lowercase with collapsed
// whitespace; lookups normalize the same way, so mapping is case-insensitive
// and whitespace-tolerant. Any unrecognized non-empty status maps to
// IN_TRANSIT: couriers invent scan labels faster than we can enumerate them,
// and a moving-but-unclassified package must never fail a sync pass.

var delhiveryStatusTable = map[string]ShipmentStatus{
	"delivered":        ShipmentStatusDelivered,
	"rto delivered":    ShipmentStatusRTODone,
	"rto-del":          ShipmentStatusRTODone,
	"rto_del":          ShipmentStatusRTODone,
	"rto":              ShipmentStatusRTODone,
	"undelivered":      ShipmentStatusRTOInitiated,
	"rto initiated":    ShipmentStatusRTOInitiated,
	"in transit":       ShipmentStatusInTransit,
	"dispatched":       ShipmentStatusInTransit,
	"pickup":           ShipmentStatusInTransit,
	"pickup scheduled": ShipmentStatusInTransit,
	"lost":             ShipmentStatusLost,
	"cancel":           ShipmentStatusLost,
	"cancelled":        ShipmentStatusLost,
}

var selloshipStatusTable = map[string]ShipmentStatus{
	"delivered":        ShipmentStatusDelivered,
	"in_transit":       ShipmentStatusInTransit,
	"in transit":       ShipmentStatusInTransit,
	"rto":              ShipmentStatusRTODone,
	"rto_done":         ShipmentStatusRTODone,
	"rto done":         ShipmentStatusRTODone,
	"undelivered":      ShipmentStatusRTOInitiated,
	"rto_initiated":    ShipmentStatusRTOInitiated,
	"rto initiated":    ShipmentStatusRTOInitiated,
	"lost":             ShipmentStatusLost,
	"cancelled":        ShipmentStatusRTODone,
	"canceled":         ShipmentStatusRTODone,
	"dispatched":       ShipmentStatusShipped,
	"shipped":          ShipmentStatusShipped,
	"pickup":           ShipmentStatusInTransit,
	"out_for_delivery": ShipmentStatusInTransit,
	"out for delivery": ShipmentStatusInTransit,
}

// MapCourierStatus normalizes a raw vendor status string to the canonical
// ShipmentStatus. Pure and total: every input maps to exactly one status and
// no input panics or errors. Empty input maps to CREATED (nothing reported
// yet); unknown input maps to IN_TRANSIT.
func MapCourierStatus(courier CourierCode, raw string) ShipmentStatus {
	normalized := strings.ToLower(strings.Join(strings.Fields(raw), " "))
	if normalized == "" {
		return ShipmentStatusCreated
	}

	var table map[string]ShipmentStatus
	switch courier {
	case CourierDelhivery:
		table = delhiveryStatusTable
	case CourierSelloship:
		table = selloshipStatusTable
	default:
		return ShipmentStatusInTransit
	}

	if status, ok := table[normalized]; ok {
		return status
	}
	// Selloship's Base spec reports statuses as UPPER_SNAKE (e.g. IN_TRANSIT);
	// retry with spaces folded to underscores before giving up.
	if status, ok := table[strings.ReplaceAll(normalized, " ", "_")]; ok {
		return status
	}
	return ShipmentStatusInTransit
}
