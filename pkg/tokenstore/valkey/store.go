// Package tokenstorevalkey keeps the credential pair in valkey, so several
// client processes can share one session.
package tokenstorevalkey

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/mshando/marketplace-client/internal/serviceerr"
	"github.com/mshando/marketplace-client/pkg/tokenstore"
)

const objectTypeCredential = "credential"

var (
	ErrGetCredential   = errors.New("getting credential from store")
	ErrStoreCredential = errors.New("setting credential into storage")
)

type Store struct {
	valkey valkey.Client
	prefix string
}

var _ = tokenstore.Store(&Store{})

func NewStore(valkeyClient valkey.Client, prefix string) *Store {
	return &Store{
		valkey: valkeyClient,
		prefix: strings.TrimSuffix(prefix, ":"),
	}
}

func (s *Store) Load(ctx context.Context) (tokenstore.Credentials, error) {
	var c tokenstore.Credentials
	var err error

	if c.AccessToken, err = s.get(ctx, tokenstore.AccessTokenKey); err != nil {
		return tokenstore.Credentials{}, errors.Join(ErrGetCredential, err)
	}

	if c.RefreshToken, err = s.get(ctx, tokenstore.RefreshTokenKey); err != nil {
		return tokenstore.Credentials{}, errors.Join(ErrGetCredential, err)
	}

	if c.Empty() {
		return tokenstore.Credentials{}, serviceerr.ErrNotFound
	}

	return c, nil
}

// SaveAccessToken stores the access token with a TTL matching its exp claim.
func (s *Store) SaveAccessToken(ctx context.Context, tok string) error {
	if err := s.set(ctx, tokenstore.AccessTokenKey, tok, tokenstore.AccessTokenTTL(tok, time.Now())); err != nil {
		return errors.Join(ErrStoreCredential, err)
	}

	return nil
}

func (s *Store) SaveRefreshToken(ctx context.Context, tok string) error {
	if err := s.set(ctx, tokenstore.RefreshTokenKey, tok, 0); err != nil {
		return errors.Join(ErrStoreCredential, err)
	}

	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	cmd := s.valkey.B().Del().Key(s.key(tokenstore.AccessTokenKey), s.key(tokenstore.RefreshTokenKey)).Build()
	if err := s.valkey.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("executing del command: %w", err)
	}

	return nil
}

func (s *Store) get(ctx context.Context, name string) (string, error) {
	val, err := s.valkey.Do(ctx, s.valkey.B().Get().Key(s.key(name)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return "", nil
		}

		return "", fmt.Errorf("executing get command: %w", err)
	}

	return val, nil
}

func (s *Store) set(ctx context.Context, name, val string, ttl time.Duration) error {
	set := s.valkey.B().Set().Key(s.key(name)).Value(val)

	var cmd valkey.Completed
	if secs := int64(ttl / time.Second); secs > 0 {
		cmd = set.ExSeconds(secs).Build()
	} else {
		cmd = set.Build()
	}

	if err := s.valkey.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("executing set command: %w", err)
	}

	return nil
}

func (s *Store) key(name string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, objectTypeCredential, name)
}
