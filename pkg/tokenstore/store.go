// Package tokenstore persists the session credential pair: a short-lived
// access token and a longer-lived opaque refresh token.
package tokenstore

import (
	"context"
	"errors"
	"fmt"
)

// Fixed names the two credentials are stored under, in every backend.
const (
	AccessTokenKey  = "mshando_token"
	RefreshTokenKey = "mshando_refresh_token"
)

// Credentials is the session credential pair.
type Credentials struct {
	AccessToken  string `yaml:"mshando_token,omitempty" json:"token,omitempty"`
	RefreshToken string `yaml:"mshando_refresh_token,omitempty" json:"refreshToken,omitempty"`
}

func (c Credentials) Empty() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// Store reads and writes the credential pair. Implementations are safe for
// concurrent use. Load returns serviceerr.ErrNotFound when nothing is stored.
type Store interface {
	Load(ctx context.Context) (Credentials, error)
	SaveAccessToken(ctx context.Context, token string) error
	SaveRefreshToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Save stores the access token and, when present, the refresh token.
// An empty refresh token keeps the stored one.
func Save(ctx context.Context, s Store, c Credentials) error {
	if c.AccessToken == "" {
		return errors.New("saving credentials: empty access token")
	}

	if err := s.SaveAccessToken(ctx, c.AccessToken); err != nil {
		return fmt.Errorf("saving access token: %w", err)
	}

	if c.RefreshToken == "" {
		return nil
	}

	if err := s.SaveRefreshToken(ctx, c.RefreshToken); err != nil {
		return fmt.Errorf("saving refresh token: %w", err)
	}

	return nil
}
