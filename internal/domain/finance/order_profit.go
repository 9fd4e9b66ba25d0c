package finance

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/omnia/backend/internal/domain/shipping"
	"github.com/omnia/backend/internal/domain/trade"
)

var (
	// ErrProfitNotFound indicates no profit row exists for the order
	ErrProfitNotFound = errors.New("finance: order profit not found")
)

// ---------------------------------------------------------------------------
// CostBasisStatus
// ---------------------------------------------------------------------------

// CostBasisStatus qualifies how complete the cost inputs of a profit row are.
// Missing SKU cost rows degrade the status instead of failing the computation.
type CostBasisStatus string

const (
	// CostBasisComputed means every SKU on the order had a cost row
	CostBasisComputed CostBasisStatus = "computed"
	// CostBasisPartial means some SKUs had cost rows, some were missing
	CostBasisPartial CostBasisStatus = "partial"
	// CostBasisMissing means no SKU had a cost row
	CostBasisMissing CostBasisStatus = "missing_costs"
)

// String returns the string representation of CostBasisStatus
func (s CostBasisStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// FinalStatus
// ---------------------------------------------------------------------------

// FinalStatus is the settlement label on a profit row, derived from shipment
// and order state at computation time.
type FinalStatus string

const (
	FinalStatusPending      FinalStatus = "PENDING"
	FinalStatusShipped      FinalStatus = "SHIPPED"
	FinalStatusInTransit    FinalStatus = "IN_TRANSIT"
	FinalStatusDelivered    FinalStatus = "DELIVERED"
	FinalStatusRTOInitiated FinalStatus = "RTO_INITIATED"
	FinalStatusRTODone      FinalStatus = "RTO_DONE"
	FinalStatusLost         FinalStatus = "LOST"
	FinalStatusCancelled    FinalStatus = "CANCELLED"
)

// ---------------------------------------------------------------------------
// OrderProfit
// ---------------------------------------------------------------------------

// OrderProfit is the per-order financial ledger row. Exactly one row exists
// per order; recomputation overwrites it in place and is idempotent.
type OrderProfit struct {
	ID      uuid.UUID
	OrderID uuid.UUID
	// Revenue is the recognized revenue for the order
	Revenue decimal.Decimal
	// ProductCost is the summed per-unit product cost across items
	ProductCost decimal.Decimal
	// PackagingCost is the summed per-unit packaging cost across items
	PackagingCost decimal.Decimal
	// ShippingForward is the forward leg shipping cost
	ShippingForward decimal.Decimal
	// ShippingReverse is the reverse (RTO) leg shipping cost
	ShippingReverse decimal.Decimal
	// MarketingCost is the blended CAC attributed to the order
	MarketingCost decimal.Decimal
	// PaymentFee is the payment gateway fee
	PaymentFee decimal.Decimal
	// NetProfit is the final signed profit figure
	NetProfit decimal.Decimal
	// RTOLoss is the loss booked when the shipment returned to origin
	RTOLoss decimal.Decimal
	// LostLoss is the loss booked when the courier lost the shipment
	LostLoss decimal.Decimal
	// CourierStatus mirrors the shipment's canonical status as free text
	CourierStatus string
	// FinalStatus is the settlement label
	FinalStatus FinalStatus
	// CostBasis qualifies the completeness of the cost inputs
	CostBasis CostBasisStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ---------------------------------------------------------------------------
// ProfitInput and computation
// ---------------------------------------------------------------------------

// SkuCost is the per-unit cost basis for one SKU.
type SkuCost struct {
	SKU           string
	ProductCost   decimal.Decimal
	PackagingCost decimal.Decimal
}

// ProfitInput carries everything ComputeProfit needs. The application layer
// assembles it from repositories; the computation itself does no I/O.
type ProfitInput struct {
	Order *trade.Order
	Items []trade.OrderItem
	// SkuCosts is keyed by SKU; items without an entry count as missing
	SkuCosts map[string]SkuCost
	// Shipment is the order's shipment, nil when none exists yet
	Shipment *shipping.Shipment
	// MarketingCost is the blended CAC for the order's calendar date
	MarketingCost decimal.Decimal
	// PaymentFee is the payment gateway fee attributed to the order
	PaymentFee decimal.Decimal
}

// ComputeProfit derives the OrderProfit row for an order. Deterministic and
// pure: identical inputs always produce identical values.
//
// Branch rules, in priority order:
//  1. Order cancelled while shipment never left CREATED: revenue 0, the
//     marketing spend and payment fee are sunk.
//  2. Delivered: full revenue minus product, packaging, forward shipping,
//     marketing and payment fee.
//  3. RTO (initiated or done): revenue 0; loss is product + packaging +
//     forward + reverse + marketing.
//  4. Lost: revenue 0; loss is product + packaging + forward. No reverse leg
//     exists, and marketing is excluded from the loss figure by rule.
//  5. Otherwise (CREATED/SHIPPED/IN_TRANSIT): the Delivered formula, i.e.
//     full revenue is recognized immediately for in-flight shipments.
func ComputeProfit(in ProfitInput) OrderProfit {
	p := OrderProfit{
		OrderID:   in.Order.ID,
		Revenue:   in.Order.OrderTotal,
		CostBasis: CostBasisComputed,
	}

	var missing int
	for _, item := range in.Items {
		if item.SKU == "" || item.Qty <= 0 {
			continue
		}
		cost, ok := in.SkuCosts[item.SKU]
		if !ok {
			missing++
			continue
		}
		qty := decimal.NewFromInt(int64(item.Qty))
		p.ProductCost = p.ProductCost.Add(cost.ProductCost.Mul(qty))
		p.PackagingCost = p.PackagingCost.Add(cost.PackagingCost.Mul(qty))
	}
	if missing > 0 {
		if p.ProductCost.IsPositive() {
			p.CostBasis = CostBasisPartial
		} else {
			p.CostBasis = CostBasisMissing
		}
	}

	shipmentStatus := shipping.ShipmentStatusCreated
	if in.Shipment != nil {
		p.ShippingForward = in.Shipment.ForwardCost
		p.ShippingReverse = in.Shipment.ReverseCost
		p.CourierStatus = in.Shipment.Status.String()
		shipmentStatus = in.Shipment.Status
	}

	p.MarketingCost = in.MarketingCost
	p.PaymentFee = in.PaymentFee
	p.FinalStatus = FinalStatusPending

	switch {
	case in.Order.Status == trade.OrderStatusCancelled && shipmentStatus == shipping.ShipmentStatusCreated:
		p.FinalStatus = FinalStatusCancelled
		p.Revenue = decimal.Zero
		p.NetProfit = p.MarketingCost.Add(p.PaymentFee).Neg()

	case shipmentStatus == shipping.ShipmentStatusDelivered:
		p.FinalStatus = FinalStatusDelivered
		p.NetProfit = p.Revenue.
			Sub(p.ProductCost).
			Sub(p.PackagingCost).
			Sub(p.ShippingForward).
			Sub(p.MarketingCost).
			Sub(p.PaymentFee)

	case shipmentStatus == shipping.ShipmentStatusRTODone || shipmentStatus == shipping.ShipmentStatusRTOInitiated:
		if shipmentStatus == shipping.ShipmentStatusRTODone {
			p.FinalStatus = FinalStatusRTODone
		} else {
			p.FinalStatus = FinalStatusRTOInitiated
		}
		p.Revenue = decimal.Zero
		p.RTOLoss = p.ProductCost.
			Add(p.PackagingCost).
			Add(p.ShippingForward).
			Add(p.ShippingReverse).
			Add(p.MarketingCost)
		p.NetProfit = p.RTOLoss.Neg()

	case shipmentStatus == shipping.ShipmentStatusLost:
		p.FinalStatus = FinalStatusLost
		p.Revenue = decimal.Zero
		p.LostLoss = p.ProductCost.
			Add(p.PackagingCost).
			Add(p.ShippingForward)
		p.NetProfit = p.LostLoss.Neg()

	default:
		switch shipmentStatus {
		case shipping.ShipmentStatusInTransit:
			p.FinalStatus = FinalStatusInTransit
		case shipping.ShipmentStatusShipped:
			p.FinalStatus = FinalStatusShipped
		}
		p.NetProfit = p.Revenue.
			Sub(p.ProductCost).
			Sub(p.PackagingCost).
			Sub(p.ShippingForward).
			Sub(p.MarketingCost).
			Sub(p.PaymentFee)
	}

	return p
}

// BlendedCAC computes the per-order marketing cost for a calendar day:
// total ad spend that day divided by the number of orders created that day,
// rounded to 2 decimal places. Zero when either input is zero.
func BlendedCAC(dailySpend decimal.Decimal, dailyOrders int64) decimal.Decimal {
	if dailyOrders <= 0 || dailySpend.IsZero() {
		return decimal.Zero
	}
	return dailySpend.Div(decimal.NewFromInt(dailyOrders)).Round(2)
}
