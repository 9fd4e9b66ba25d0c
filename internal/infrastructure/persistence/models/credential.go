package models

import (
	"time"

	"github.com/google/uuid"
)

// ProviderCredentialModel stores encrypted per-user credentials for external
// providers. Values are AEAD-sealed before they reach this table.
type ProviderCredentialModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID         string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_provider_credentials_user_provider,priority:1"`
	ProviderID     string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_provider_credentials_user_provider,priority:2"`
	ValueEncrypted string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProviderCredentialModel) TableName() string {
	return "provider_credentials"
}
