package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/omnia/backend/internal/domain/finance"
)

// OrderProfitModel is the persistence model for per-order profit rows.
// One row per order; recomputation overwrites in place.
type OrderProfitModel struct {
	ID              uuid.UUID               `gorm:"type:uuid;primary_key"`
	OrderID         uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex"`
	Revenue         decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	ProductCost     decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	PackagingCost   decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	ShippingCost    decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	ReverseShipping decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	MarketingCost   decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentFee      decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	NetProfit       decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	RTOLoss         decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	LostLoss        decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	CourierStatus   string                  `gorm:"type:varchar(30)"`
	FinalStatus     finance.FinalStatus     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Status          finance.CostBasisStatus `gorm:"type:varchar(20);not null;default:'computed'"`
	CreatedAt       time.Time               `gorm:"not null"`
	UpdatedAt       time.Time               `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderProfitModel) TableName() string {
	return "order_profit"
}

// ToDomain converts the persistence model to a domain OrderProfit
func (m *OrderProfitModel) ToDomain() *finance.OrderProfit {
	return &finance.OrderProfit{
		ID:              m.ID,
		OrderID:         m.OrderID,
		Revenue:         m.Revenue,
		ProductCost:     m.ProductCost,
		PackagingCost:   m.PackagingCost,
		ShippingForward: m.ShippingCost,
		ShippingReverse: m.ReverseShipping,
		MarketingCost:   m.MarketingCost,
		PaymentFee:      m.PaymentFee,
		NetProfit:       m.NetProfit,
		RTOLoss:         m.RTOLoss,
		LostLoss:        m.LostLoss,
		CourierStatus:   m.CourierStatus,
		FinalStatus:     m.FinalStatus,
		CostBasis:       m.Status,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain OrderProfit
func (m *OrderProfitModel) FromDomain(p *finance.OrderProfit) {
	m.ID = p.ID
	m.OrderID = p.OrderID
	m.Revenue = p.Revenue
	m.ProductCost = p.ProductCost
	m.PackagingCost = p.PackagingCost
	m.ShippingCost = p.ShippingForward
	m.ReverseShipping = p.ShippingReverse
	m.MarketingCost = p.MarketingCost
	m.PaymentFee = p.PaymentFee
	m.NetProfit = p.NetProfit
	m.RTOLoss = p.RTOLoss
	m.LostLoss = p.LostLoss
	m.CourierStatus = p.CourierStatus
	m.FinalStatus = p.FinalStatus
	m.Status = p.CostBasis
}

// SkuCostModel is the persistence model for the per-unit SKU cost catalog.
type SkuCostModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	SKU           string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	ProductCost   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PackagingCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SkuCostModel) TableName() string {
	return "sku_costs"
}

// ToDomain converts the persistence model to a domain SkuCost
func (m *SkuCostModel) ToDomain() finance.SkuCost {
	return finance.SkuCost{
		SKU:           m.SKU,
		ProductCost:   m.ProductCost,
		PackagingCost: m.PackagingCost,
	}
}

// AdSpendDailyModel is the persistence model for daily ad spend totals.
type AdSpendDailyModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	SpendDate time.Time       `gorm:"type:date;not null;index"`
	Source    string          `gorm:"type:varchar(50);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AdSpendDailyModel) TableName() string {
	return "ad_spend_daily"
}
