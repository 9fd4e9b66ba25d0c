package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/omnia/backend/internal/domain/shipping"
	"github.com/omnia/backend/internal/infrastructure/config"
)

// ErrRecordNotFound indicates no stored credential exists for a (user, provider) pair
var ErrRecordNotFound = errors.New("credentials: record not found")

// Store is the persistence port for encrypted credential records.
type Store interface {
	// FindValue returns the encrypted value for a (user, provider) pair or
	// ErrRecordNotFound.
	FindValue(ctx context.Context, userID, providerID string) (string, error)

	// SaveValue inserts or replaces the encrypted value for a (user, provider) pair.
	SaveValue(ctx context.Context, userID, providerID, encryptedValue string) error
}

// credentialPayload is the JSON shape of a decrypted credential value. Legacy
// records hold a bare API key string instead of JSON.
type credentialPayload struct {
	APIKey   string `json:"api_key"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Resolver resolves courier credentials per user with a process-wide config
// fallback. Implements shipping.CredentialResolver.
type Resolver struct {
	store    Store
	cipher   *Cipher
	fallback config.CouriersConfig
	logger   *zap.Logger
}

// NewResolver creates a credential resolver
func NewResolver(store Store, cipher *Cipher, fallback config.CouriersConfig, logger *zap.Logger) *Resolver {
	return &Resolver{
		store:    store,
		cipher:   cipher,
		fallback: fallback,
		logger:   logger.Named("credentials"),
	}
}

// Resolve returns usable credentials for a (user, courier) pair. Stored
// per-user records win over config fallbacks. Returns
// shipping.ErrCourierNotConfigured when neither source yields usable
// credentials; corrupt records degrade to the fallback rather than failing
// the whole sync pass.
func (r *Resolver) Resolve(ctx context.Context, userID string, courier shipping.CourierCode) (shipping.Credentials, error) {
	if !courier.IsValid() {
		return shipping.Credentials{}, shipping.ErrUnknownCourier
	}

	if userID != "" {
		creds, err := r.resolveStored(ctx, userID, courier)
		if err == nil && creds.IsUsable() {
			return creds, nil
		}
		if err != nil && !errors.Is(err, ErrRecordNotFound) {
			r.logger.Warn("stored credential unusable, falling back",
				zap.String("user_id", userID),
				zap.String("courier", courier.String()),
				zap.Error(err))
		}
	}

	creds := r.fallbackCredentials(courier)
	if creds.IsUsable() {
		return creds, nil
	}
	return shipping.Credentials{}, shipping.ErrCourierNotConfigured
}

// Save encrypts and stores per-user credentials for a courier.
func (r *Resolver) Save(ctx context.Context, userID string, creds shipping.Credentials) error {
	if !creds.Courier.IsValid() {
		return shipping.ErrUnknownCourier
	}
	payload, err := json.Marshal(credentialPayload{
		APIKey:   creds.APIKey,
		Username: creds.Username,
		Password: creds.Password,
	})
	if err != nil {
		return err
	}
	encrypted, err := r.cipher.Encrypt(string(payload))
	if err != nil {
		return err
	}
	return r.store.SaveValue(ctx, userID, creds.Courier.ProviderID(), encrypted)
}

func (r *Resolver) resolveStored(ctx context.Context, userID string, courier shipping.CourierCode) (shipping.Credentials, error) {
	encrypted, err := r.store.FindValue(ctx, userID, courier.ProviderID())
	if err != nil {
		return shipping.Credentials{}, err
	}
	plaintext, err := r.cipher.Decrypt(encrypted)
	if err != nil {
		return shipping.Credentials{}, err
	}

	creds := shipping.Credentials{Courier: courier}
	var payload credentialPayload
	if err := json.Unmarshal([]byte(plaintext), &payload); err == nil {
		creds.APIKey = payload.APIKey
		creds.Username = payload.Username
		creds.Password = payload.Password
	} else {
		// Legacy records store the raw API key without JSON wrapping
		creds.APIKey = strings.TrimSpace(plaintext)
	}
	return creds, nil
}

func (r *Resolver) fallbackCredentials(courier shipping.CourierCode) shipping.Credentials {
	switch courier {
	case shipping.CourierDelhivery:
		return shipping.Credentials{
			Courier: courier,
			APIKey:  r.fallback.Delhivery.APIKey,
		}
	case shipping.CourierSelloship:
		return shipping.Credentials{
			Courier:  courier,
			Username: r.fallback.Selloship.Username,
			Password: r.fallback.Selloship.Password,
		}
	default:
		return shipping.Credentials{}
	}
}
