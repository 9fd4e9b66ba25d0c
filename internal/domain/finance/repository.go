package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderProfitRepository persists profit rows keyed by order.
type OrderProfitRepository interface {
	// FindByOrderID returns the profit row for an order or ErrProfitNotFound
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*OrderProfit, error)

	// Upsert inserts or overwrites the single profit row for the order
	Upsert(ctx context.Context, profit *OrderProfit) error
}

// SkuCostRepository exposes the per-unit cost catalog.
type SkuCostRepository interface {
	// FindBySKUs returns cost rows keyed by SKU. SKUs without a row are simply
	// absent from the map; the caller decides how to degrade.
	FindBySKUs(ctx context.Context, skus []string) (map[string]SkuCost, error)
}

// AdSpendRepository exposes daily ad spend totals for CAC blending.
type AdSpendRepository interface {
	// SpendOn returns the total ad spend for the given calendar date (UTC).
	// Days without recorded spend return zero, not an error.
	SpendOn(ctx context.Context, day time.Time) (decimal.Decimal, error)
}
