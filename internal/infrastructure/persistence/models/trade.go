package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/omnia/backend/internal/domain/trade"
)

// OrderModel is the persistence model for marketplace orders. Orders are
// written by the intake pipeline; this engine only reads them.
type OrderModel struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key"`
	UserID         string            `gorm:"type:varchar(64);not null;index"`
	ChannelOrderID string            `gorm:"type:varchar(100);not null;index"`
	CustomerName   string            `gorm:"type:varchar(200)"`
	OrderTotal     decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Status         trade.OrderStatus `gorm:"type:varchar(20);not null;default:'NEW'"`
	CreatedAt      time.Time         `gorm:"not null;index"`
	UpdatedAt      time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *trade.Order {
	return &trade.Order{
		ID:             m.ID,
		UserID:         m.UserID,
		ChannelOrderID: m.ChannelOrderID,
		CustomerName:   m.CustomerName,
		OrderTotal:     m.OrderTotal,
		Status:         m.Status,
		CreatedAt:      m.CreatedAt,
	}
}

// OrderItemModel is the persistence model for order line items.
type OrderItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU       string          `gorm:"type:varchar(100);not null"`
	Title     string          `gorm:"type:varchar(300)"`
	Qty       int             `gorm:"not null;default:1"`
	Price     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem
func (m *OrderItemModel) ToDomain() trade.OrderItem {
	return trade.OrderItem{
		ID:      m.ID,
		OrderID: m.OrderID,
		SKU:     m.SKU,
		Title:   m.Title,
		Qty:     m.Qty,
		Price:   m.Price,
	}
}
