package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/omnia/backend/internal/domain/shipping"
	"github.com/omnia/backend/internal/infrastructure/persistence/models"
)

// GormShipmentRepository implements shipping.ShipmentRepository using GORM
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new GormShipmentRepository
func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// activeShipmentRow carries a shipment plus its owning user from the orders join
type activeShipmentRow struct {
	models.ShipmentModel `gorm:"embedded"`
	OwnerUserID          string `gorm:"column:owner_user_id"`
}

// FindActive returns all non-terminal shipments with a non-empty waybill,
// each paired with the user that owns its order. Terminal shipments are
// excluded at the query level so they are never polled again.
func (r *GormShipmentRepository) FindActive(ctx context.Context, filter shipping.ActiveShipmentFilter) ([]shipping.ShipmentWithOwner, error) {
	query := r.db.WithContext(ctx).
		Table("shipments").
		Select("shipments.*, orders.user_id AS owner_user_id").
		Joins("JOIN orders ON orders.id = shipments.order_id").
		Where("shipments.status NOT IN ?", terminalStatusStrings()).
		Where("shipments.awb_number <> ''")
	if filter.UserID != "" {
		query = query.Where("orders.user_id = ?", filter.UserID)
	}

	var rows []activeShipmentRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]shipping.ShipmentWithOwner, len(rows))
	for i, row := range rows {
		result[i] = shipping.ShipmentWithOwner{
			Shipment: *row.ShipmentModel.ToDomain(),
			UserID:   row.OwnerUserID,
		}
	}
	return result, nil
}

// FindByOrderID returns the shipment for an order
func (r *GormShipmentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*shipping.Shipment, error) {
	var model models.ShipmentModel
	if err := r.db.WithContext(ctx).First(&model, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shipping.ErrShipmentNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ApplyResults persists a chunk of tracking results in one transaction. Each
// successful result updates its shipment and upserts the shipment's single
// tracking snapshot. Failed results are skipped; a database error rolls back
// only this chunk.
func (r *GormShipmentRepository) ApplyResults(ctx context.Context, updates []shipping.ShipmentUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for _, update := range updates {
			if !update.Result.OK() || update.Shipment == nil {
				continue
			}

			s := update.Shipment
			if err := tx.Model(&models.ShipmentModel{}).
				Where("id = ?", s.ID).
				Updates(map[string]interface{}{
					"status":         s.Status,
					"forward_cost":   s.ForwardCost,
					"reverse_cost":   s.ReverseCost,
					"last_synced_at": s.LastSyncedAt,
					"updated_at":     now,
				}).Error; err != nil {
				return err
			}

			record := shipping.NewTrackingRecord(s.ID, update.Result)
			var trackingModel models.ShipmentTrackingModel
			trackingModel.FromDomain(record)
			trackingModel.CreatedAt = now
			trackingModel.UpdatedAt = now
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "shipment_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"waybill", "raw_status", "status", "location", "status_at", "raw_payload", "updated_at",
				}),
			}).Create(&trackingModel).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func terminalStatusStrings() []string {
	terminal := shipping.TerminalStatuses()
	out := make([]string, len(terminal))
	for i, s := range terminal {
		out[i] = s.String()
	}
	return out
}
