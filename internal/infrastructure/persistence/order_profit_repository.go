package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/omnia/backend/internal/domain/finance"
	"github.com/omnia/backend/internal/infrastructure/persistence/models"
)

// GormOrderProfitRepository implements finance.OrderProfitRepository using GORM
type GormOrderProfitRepository struct {
	db *gorm.DB
}

// NewGormOrderProfitRepository creates a new GormOrderProfitRepository
func NewGormOrderProfitRepository(db *gorm.DB) *GormOrderProfitRepository {
	return &GormOrderProfitRepository{db: db}
}

// FindByOrderID returns the profit row for an order
func (r *GormOrderProfitRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*finance.OrderProfit, error) {
	var model models.OrderProfitModel
	if err := r.db.WithContext(ctx).First(&model, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, finance.ErrProfitNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Upsert inserts or overwrites the single profit row for the order. The
// order_id unique index makes the write idempotent.
func (r *GormOrderProfitRepository) Upsert(ctx context.Context, profit *finance.OrderProfit) error {
	var model models.OrderProfitModel
	model.FromDomain(profit)
	if model.ID == uuid.Nil {
		model.ID = uuid.New()
	}
	now := time.Now().UTC()
	model.CreatedAt = now
	model.UpdatedAt = now

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"revenue", "product_cost", "packaging_cost", "shipping_cost",
			"reverse_shipping", "marketing_cost", "payment_fee", "net_profit",
			"rto_loss", "lost_loss", "courier_status", "final_status", "status",
			"updated_at",
		}),
	}).Create(&model).Error
}
