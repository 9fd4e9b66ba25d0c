package credentials

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/omnia/backend/internal/domain/shipping"
	"github.com/omnia/backend/internal/infrastructure/config"
)

const testKey = "6368616e676520746869732070617373776f726420746f206120736563726574"

type memoryStore struct {
	values map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: make(map[string]string)}
}

func (s *memoryStore) FindValue(_ context.Context, userID, providerID string) (string, error) {
	v, ok := s.values[userID+"/"+providerID]
	if !ok {
		return "", ErrRecordNotFound
	}
	return v, nil
}

func (s *memoryStore) SaveValue(_ context.Context, userID, providerID, encryptedValue string) error {
	s.values[userID+"/"+providerID] = encryptedValue
	return nil
}

func TestCipher_RoundTrip(t *testing.T) {
	cipher, err := NewCipher(testKey)
	require.NoError(t, err)

	encrypted, err := cipher.Encrypt(`{"api_key":"secret-token"}`)
	require.NoError(t, err)
	assert.NotContains(t, encrypted, "secret-token")

	decrypted, err := cipher.Decrypt(encrypted)
	require.NoError(t, err)
	assert.Equal(t, `{"api_key":"secret-token"}`, decrypted)
}

func TestCipher_InvalidKey(t *testing.T) {
	_, err := NewCipher("not-hex")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = NewCipher("abcd")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestCipher_CorruptCiphertext(t *testing.T) {
	cipher, err := NewCipher(testKey)
	require.NoError(t, err)

	_, err = cipher.Decrypt("!!!not-base64!!!")
	assert.ErrorIs(t, err, ErrCiphertextCorrupt)

	encrypted, err := cipher.Encrypt("value")
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(encrypted)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	_, err = cipher.Decrypt(base64.StdEncoding.EncodeToString(raw))
	assert.ErrorIs(t, err, ErrCiphertextCorrupt)
}

func newTestResolver(t *testing.T, store Store, fallback config.CouriersConfig) *Resolver {
	t.Helper()
	cipher, err := NewCipher(testKey)
	require.NoError(t, err)
	return NewResolver(store, cipher, fallback, zap.NewNop())
}

func TestResolver_StoredJSONRecord(t *testing.T) {
	store := newMemoryStore()
	resolver := newTestResolver(t, store, config.CouriersConfig{})

	err := resolver.Save(context.Background(), "user-1", shipping.Credentials{
		Courier:  shipping.CourierSelloship,
		Username: "seller@example.com",
		Password: "pw",
	})
	require.NoError(t, err)

	creds, err := resolver.Resolve(context.Background(), "user-1", shipping.CourierSelloship)
	require.NoError(t, err)
	assert.Equal(t, "seller@example.com", creds.Username)
	assert.Equal(t, "pw", creds.Password)
	assert.True(t, creds.HasLogin())
}

func TestResolver_LegacyBareKeyRecord(t *testing.T) {
	store := newMemoryStore()
	resolver := newTestResolver(t, store, config.CouriersConfig{})

	cipher, err := NewCipher(testKey)
	require.NoError(t, err)
	encrypted, err := cipher.Encrypt("raw-api-key")
	require.NoError(t, err)
	require.NoError(t, store.SaveValue(context.Background(), "user-1", "delhivery", encrypted))

	creds, err := resolver.Resolve(context.Background(), "user-1", shipping.CourierDelhivery)
	require.NoError(t, err)
	assert.Equal(t, "raw-api-key", creds.APIKey)
}

func TestResolver_FallbackToConfig(t *testing.T) {
	resolver := newTestResolver(t, newMemoryStore(), config.CouriersConfig{
		Delhivery: config.DelhiveryConfig{APIKey: "fallback-key"},
	})

	creds, err := resolver.Resolve(context.Background(), "user-1", shipping.CourierDelhivery)
	require.NoError(t, err)
	assert.Equal(t, "fallback-key", creds.APIKey)
}

func TestResolver_NotConfigured(t *testing.T) {
	resolver := newTestResolver(t, newMemoryStore(), config.CouriersConfig{})

	_, err := resolver.Resolve(context.Background(), "user-1", shipping.CourierSelloship)
	assert.ErrorIs(t, err, shipping.ErrCourierNotConfigured)
}

func TestResolver_CorruptRecordFallsBack(t *testing.T) {
	store := newMemoryStore()
	require.NoError(t, store.SaveValue(context.Background(), "user-1", "delhivery", "garbage"))

	resolver := newTestResolver(t, store, config.CouriersConfig{
		Delhivery: config.DelhiveryConfig{APIKey: "fallback-key"},
	})

	creds, err := resolver.Resolve(context.Background(), "user-1", shipping.CourierDelhivery)
	require.NoError(t, err)
	assert.Equal(t, "fallback-key", creds.APIKey)
}

func TestResolver_UnknownCourier(t *testing.T) {
	resolver := newTestResolver(t, newMemoryStore(), config.CouriersConfig{})

	_, err := resolver.Resolve(context.Background(), "user-1", "BLUEDART")
	assert.ErrorIs(t, err, shipping.ErrUnknownCourier)
}
