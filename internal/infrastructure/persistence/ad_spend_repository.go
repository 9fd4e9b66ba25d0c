package persistence

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormAdSpendRepository implements finance.AdSpendRepository using GORM
type GormAdSpendRepository struct {
	db *gorm.DB
}

// NewGormAdSpendRepository creates a new GormAdSpendRepository
func NewGormAdSpendRepository(db *gorm.DB) *GormAdSpendRepository {
	return &GormAdSpendRepository{db: db}
}

// SpendOn returns the total ad spend across sources for a UTC calendar date.
// Days without rows return zero.
func (r *GormAdSpendRepository) SpendOn(ctx context.Context, day time.Time) (decimal.Decimal, error) {
	date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Table("ad_spend_daily").
		Select("COALESCE(SUM(amount), 0)").
		Where("spend_date = ?", date).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
