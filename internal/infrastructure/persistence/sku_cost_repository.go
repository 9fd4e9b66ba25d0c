package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/omnia/backend/internal/domain/finance"
	"github.com/omnia/backend/internal/infrastructure/persistence/models"
)

// GormSkuCostRepository implements finance.SkuCostRepository using GORM
type GormSkuCostRepository struct {
	db *gorm.DB
}

// NewGormSkuCostRepository creates a new GormSkuCostRepository
func NewGormSkuCostRepository(db *gorm.DB) *GormSkuCostRepository {
	return &GormSkuCostRepository{db: db}
}

// FindBySKUs returns cost rows keyed by SKU; missing SKUs are absent
func (r *GormSkuCostRepository) FindBySKUs(ctx context.Context, skus []string) (map[string]finance.SkuCost, error) {
	result := make(map[string]finance.SkuCost, len(skus))
	if len(skus) == 0 {
		return result, nil
	}

	var costModels []models.SkuCostModel
	if err := r.db.WithContext(ctx).
		Where("sku IN ?", skus).
		Find(&costModels).Error; err != nil {
		return nil, err
	}
	for _, m := range costModels {
		result[m.SKU] = m.ToDomain()
	}
	return result, nil
}
