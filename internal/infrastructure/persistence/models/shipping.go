package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/omnia/backend/internal/domain/shipping"
)

// ShipmentModel is the persistence model for shipments.
type ShipmentModel struct {
	ID           uuid.UUID               `gorm:"type:uuid;primary_key"`
	OrderID      uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex"`
	CourierName  string                  `gorm:"type:varchar(100);not null"`
	AWBNumber    string                  `gorm:"type:varchar(64);not null;index"`
	TrackingURL  string                  `gorm:"type:varchar(500)"`
	Status       shipping.ShipmentStatus `gorm:"type:varchar(20);not null;default:'CREATED';index"`
	ForwardCost  decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	ReverseCost  decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	ShippedAt    *time.Time
	LastSyncedAt *time.Time
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ShipmentModel) TableName() string {
	return "shipments"
}

// ToDomain converts the persistence model to a domain Shipment
func (m *ShipmentModel) ToDomain() *shipping.Shipment {
	return &shipping.Shipment{
		ID:           m.ID,
		OrderID:      m.OrderID,
		CourierName:  m.CourierName,
		AWB:          m.AWBNumber,
		TrackingURL:  m.TrackingURL,
		Status:       m.Status,
		ForwardCost:  m.ForwardCost,
		ReverseCost:  m.ReverseCost,
		ShippedAt:    m.ShippedAt,
		LastSyncedAt: m.LastSyncedAt,
		CreatedAt:    m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain Shipment
func (m *ShipmentModel) FromDomain(s *shipping.Shipment) {
	m.ID = s.ID
	m.OrderID = s.OrderID
	m.CourierName = s.CourierName
	m.AWBNumber = s.AWB
	m.TrackingURL = s.TrackingURL
	m.Status = s.Status
	m.ForwardCost = s.ForwardCost
	m.ReverseCost = s.ReverseCost
	m.ShippedAt = s.ShippedAt
	m.LastSyncedAt = s.LastSyncedAt
	m.CreatedAt = s.CreatedAt
}

// ShipmentTrackingModel is the persistence model for the latest raw tracking
// snapshot per shipment.
type ShipmentTrackingModel struct {
	ID         uuid.UUID               `gorm:"type:uuid;primary_key"`
	ShipmentID uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex"`
	Waybill    string                  `gorm:"type:varchar(64);not null"`
	RawStatus  string                  `gorm:"type:varchar(100)"`
	Status     shipping.ShipmentStatus `gorm:"type:varchar(20);not null"`
	Location   string                  `gorm:"type:varchar(200)"`
	StatusAt   *time.Time
	RawPayload []byte    `gorm:"type:jsonb"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ShipmentTrackingModel) TableName() string {
	return "shipment_tracking"
}

// ToDomain converts the persistence model to a domain TrackingRecord
func (m *ShipmentTrackingModel) ToDomain() *shipping.TrackingRecord {
	return &shipping.TrackingRecord{
		ID:         m.ID,
		ShipmentID: m.ShipmentID,
		AWB:        m.Waybill,
		RawStatus:  m.RawStatus,
		Status:     m.Status,
		Location:   m.Location,
		StatusAt:   m.StatusAt,
		RawPayload: m.RawPayload,
		UpdatedAt:  m.UpdatedAt,
		CreatedAt:  m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain TrackingRecord
func (m *ShipmentTrackingModel) FromDomain(r *shipping.TrackingRecord) {
	m.ID = r.ID
	m.ShipmentID = r.ShipmentID
	m.Waybill = r.AWB
	m.RawStatus = r.RawStatus
	m.Status = r.Status
	m.Location = r.Location
	m.StatusAt = r.StatusAt
	m.RawPayload = r.RawPayload
}
