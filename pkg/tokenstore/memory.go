package tokenstore

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/mshando/marketplace-client/internal/serviceerr"
	"github.com/mshando/marketplace-client/pkg/token"
)

const memoryCleanupInterval = 10 * time.Minute

// Memory keeps the credentials in process memory. The access token entry
// expires together with the token's exp claim.
type Memory struct {
	cache *cache.Cache
}

var _ = Store(&Memory{})

func NewMemory() *Memory {
	return &Memory{
		cache: cache.New(cache.NoExpiration, memoryCleanupInterval),
	}
}

func (m *Memory) Load(_ context.Context) (Credentials, error) {
	var c Credentials
	if v, ok := m.cache.Get(AccessTokenKey); ok {
		c.AccessToken, _ = v.(string)
	}
	if v, ok := m.cache.Get(RefreshTokenKey); ok {
		c.RefreshToken, _ = v.(string)
	}

	if c.Empty() {
		return Credentials{}, serviceerr.ErrNotFound
	}

	return c, nil
}

func (m *Memory) SaveAccessToken(_ context.Context, tok string) error {
	m.cache.Set(AccessTokenKey, tok, AccessTokenTTL(tok, time.Now()))
	return nil
}

func (m *Memory) SaveRefreshToken(_ context.Context, tok string) error {
	m.cache.Set(RefreshTokenKey, tok, cache.NoExpiration)
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.cache.Delete(AccessTokenKey)
	m.cache.Delete(RefreshTokenKey)
	return nil
}

// AccessTokenTTL returns how long an access token is worth keeping: until its
// exp claim, or without limit when the claim is missing or already past.
func AccessTokenTTL(tok string, now time.Time) time.Duration {
	claims, err := token.Parse(tok)
	if err != nil || claims.Expiry.IsZero() {
		return cache.NoExpiration
	}

	ttl := claims.Expiry.Sub(now)
	if ttl <= 0 {
		return cache.NoExpiration
	}

	return ttl
}
