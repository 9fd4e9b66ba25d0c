package courier

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// TokenCache holds vendor auth tokens per account with a TTL. It is an
// explicit injected object, shared by all clients built for the same vendor,
// so concurrent sync groups reuse one login. Refresh goes through a
// single-flight group to avoid duplicate logins under concurrency.
type TokenCache struct {
	ttl time.Duration

	mu     sync.RWMutex
	tokens map[string]cachedToken

	group singleflight.Group
}

type cachedToken struct {
	value     string
	expiresAt time.Time
}

// NewTokenCache creates a token cache with the given TTL
func NewTokenCache(ttl time.Duration) *TokenCache {
	return &TokenCache{
		ttl:    ttl,
		tokens: make(map[string]cachedToken),
	}
}

// Get returns a cached, unexpired token for the key
func (c *TokenCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tokens[key]
	if !ok || time.Now().After(t.expiresAt) {
		return "", false
	}
	return t.value, true
}

// GetOrRefresh returns the cached token for the key, or calls refresh to
// obtain a new one. Concurrent callers for the same key share one refresh.
func (c *TokenCache) GetOrRefresh(key string, refresh func() (string, error)) (string, error) {
	if token, ok := c.Get(key); ok {
		return token, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A concurrent caller may have refreshed while we queued
		if token, ok := c.Get(key); ok {
			return token, nil
		}
		token, err := refresh()
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.tokens[key] = cachedToken{value: token, expiresAt: time.Now().Add(c.ttl)}
		c.mu.Unlock()
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops the cached token for the key, forcing the next caller to refresh
func (c *TokenCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tokens, key)
}
