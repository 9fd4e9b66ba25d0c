package trade

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrOrderNotFound indicates the order does not exist
	ErrOrderNotFound = errors.New("trade: order not found")
)

// OrderStatus is the marketplace-facing order state. Orders are written by
// the marketplace intake pipeline; this engine reads them only.
type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "NEW"
	OrderStatusPacked    OrderStatus = "PACKED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// Order is a marketplace order as consumed by the sync and profit engines.
type Order struct {
	ID uuid.UUID
	// UserID is the account that owns the marketplace channel the order came from
	UserID string
	// ChannelOrderID is the marketplace's own order identifier
	ChannelOrderID string
	CustomerName   string
	// OrderTotal is the amount the buyer paid
	OrderTotal decimal.Decimal
	Status     OrderStatus
	CreatedAt  time.Time
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID      uuid.UUID
	OrderID uuid.UUID
	SKU     string
	Title   string
	Qty     int
	Price   decimal.Decimal
}

// OrderRepository is the read-only access this engine has to orders.
type OrderRepository interface {
	// FindByID returns an order or ErrOrderNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindItems returns the line items of an order
	FindItems(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error)

	// CountCreatedOn counts orders created on the given calendar date (UTC),
	// used as the denominator of the blended CAC.
	CountCreatedOn(ctx context.Context, day time.Time) (int64, error)
}
