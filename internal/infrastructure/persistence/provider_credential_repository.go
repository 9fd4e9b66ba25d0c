package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/omnia/backend/internal/infrastructure/credentials"
	"github.com/omnia/backend/internal/infrastructure/persistence/models"
)

// GormProviderCredentialRepository implements credentials.Store using GORM
type GormProviderCredentialRepository struct {
	db *gorm.DB
}

// NewGormProviderCredentialRepository creates a new GormProviderCredentialRepository
func NewGormProviderCredentialRepository(db *gorm.DB) *GormProviderCredentialRepository {
	return &GormProviderCredentialRepository{db: db}
}

// FindValue returns the encrypted value for a (user, provider) pair
func (r *GormProviderCredentialRepository) FindValue(ctx context.Context, userID, providerID string) (string, error) {
	var model models.ProviderCredentialModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND provider_id = ?", userID, providerID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", credentials.ErrRecordNotFound
		}
		return "", err
	}
	return model.ValueEncrypted, nil
}

// SaveValue inserts or replaces the encrypted value for a (user, provider) pair
func (r *GormProviderCredentialRepository) SaveValue(ctx context.Context, userID, providerID, encryptedValue string) error {
	now := time.Now().UTC()
	model := models.ProviderCredentialModel{
		ID:             uuid.New(),
		UserID:         userID,
		ProviderID:     providerID,
		ValueEncrypted: encryptedValue,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "provider_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value_encrypted", "updated_at"}),
	}).Create(&model).Error
}
