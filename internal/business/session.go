package business

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mshando/marketplace-client/internal/config"
	"github.com/mshando/marketplace-client/internal/serviceerr"
	"github.com/mshando/marketplace-client/pkg/token"
)

// SessionInfo describes the stored session as far as it can be told without
// asking the backend.
type SessionInfo struct {
	LoggedIn        bool      `json:"loggedIn"`
	Subject         string    `json:"subject,omitempty"`
	Role            string    `json:"role,omitempty"`
	ExpiresAt       time.Time `json:"expiresAt,omitzero"`
	Expires         string    `json:"expires,omitempty"`
	HasRefreshToken bool      `json:"hasRefreshToken"`
}

func (s *Services) Session(ctx context.Context, now time.Time) (SessionInfo, error) {
	creds, err := s.Store.Load(ctx)
	if errors.Is(err, serviceerr.ErrNotFound) {
		return SessionInfo{}, nil
	}
	if err != nil {
		return SessionInfo{}, fmt.Errorf("loading credentials: %w", err)
	}

	info := SessionInfo{HasRefreshToken: creds.RefreshToken != ""}

	claims, err := token.Parse(creds.AccessToken)
	if err != nil {
		return info, nil
	}

	info.Subject = claims.Subject
	info.Role = claims.Role
	info.LoggedIn = !claims.ExpiredAt(now, 0)
	if !claims.Expiry.IsZero() {
		info.ExpiresAt = claims.Expiry
		info.Expires = humanize.RelTime(claims.Expiry, now, "ago", "from now")
	}

	return info, nil
}

// WithServices adapts fn into a business function that gets the wired
// services and releases them afterwards.
func WithServices(fn func(context.Context, *Services) error) func(context.Context, *config.Config) error {
	return func(ctx context.Context, cfg *config.Config) error {
		svc, closeFn, err := NewServices(ctx, cfg)
		if err != nil {
			return fmt.Errorf("initialising the services: %w", err)
		}

		defer closeFn()

		return fn(ctx, svc)
	}
}
