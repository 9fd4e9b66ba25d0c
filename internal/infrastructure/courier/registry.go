package courier

import (
	"go.uber.org/zap"

	"github.com/omnia/backend/internal/domain/shipping"
	"github.com/omnia/backend/internal/infrastructure/config"
)

// Registry builds courier clients bound to resolved credentials. Config and
// the Selloship token cache are shared; only the credential binding varies
// per (user, courier) group.
type Registry struct {
	cfg    config.CouriersConfig
	tokens *TokenCache
	logger *zap.Logger
}

// NewRegistry creates a courier client registry
func NewRegistry(cfg config.CouriersConfig, logger *zap.Logger) *Registry {
	return &Registry{
		cfg:    cfg,
		tokens: NewTokenCache(cfg.Selloship.TokenTTL),
		logger: logger,
	}
}

// ClientFor returns a client for the courier bound to the given credentials.
func (r *Registry) ClientFor(courier shipping.CourierCode, creds shipping.Credentials) (shipping.CourierClient, error) {
	switch courier {
	case shipping.CourierDelhivery:
		return NewDelhiveryClient(r.cfg.Delhivery, creds, r.logger), nil
	case shipping.CourierSelloship:
		return NewSelloshipClient(r.cfg.Selloship, creds, r.tokens, r.logger), nil
	default:
		return nil, shipping.ErrUnknownCourier
	}
}
