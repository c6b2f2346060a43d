package business

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/oops"

	slogctx "github.com/veqryn/slog-context"

	"github.com/mshando/marketplace-client/internal/config"
	"github.com/mshando/marketplace-client/internal/serviceerr"
	"github.com/mshando/marketplace-client/pkg/apiclient"
	"github.com/mshando/marketplace-client/pkg/token"
	"github.com/mshando/marketplace-client/pkg/tokenstore"
)

// TokenRefresherMain keeps the stored session alive until ctx is done or the
// session expires.
func TokenRefresherMain(ctx context.Context, cfg *config.Config) error {
	svc, closeFn, err := NewServices(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialising the services: %w", err)
	}

	defer closeFn()

	slogctx.Info(ctx, "Starting token refresh job",
		"interval", cfg.TokenRefresher.Interval,
		"threshold", cfg.TokenRefresher.Threshold,
	)
	return startTokenRefresher(ctx, svc.Store, svc.Refresher, cfg.TokenRefresher)
}

func startTokenRefresher(ctx context.Context, store tokenstore.Store, refresher *apiclient.Refresher, conf config.TokenRefresher) error {
	c := time.Tick(conf.Interval)
	for {
		_, err := refreshIfExpiring(ctx, store, refresher, time.Now(), conf.Threshold)
		switch {
		case ctx.Err() != nil:
			slogctx.Info(ctx, "Stopping token refresh job")
			return nil
		case errors.Is(err, serviceerr.ErrSessionExpired):
			return oops.In("Token Refresher").Wrapf(err, "Session ended")
		case err != nil:
			slogctx.Error(ctx, "Failed to refresh tokens", "error", err)
		}

		select {
		case <-c:
			continue
		case <-ctx.Done():
			return nil
		}
	}
}

// refreshIfExpiring refreshes the stored pair when the access token is
// missing or lapses within threshold of now. It reports whether a refresh ran.
func refreshIfExpiring(ctx context.Context, store tokenstore.Store, refresher *apiclient.Refresher, now time.Time, threshold time.Duration) (bool, error) {
	creds, err := store.Load(ctx)
	if errors.Is(err, serviceerr.ErrNotFound) {
		slogctx.Debug(ctx, "No session stored, nothing to refresh")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading credentials: %w", err)
	}

	if creds.AccessToken != "" {
		claims, err := token.Parse(creds.AccessToken)
		if err == nil && !claims.ExpiresWithin(now, threshold) {
			slogctx.Debug(ctx, "Access token still fresh", "expires_at", claims.Expiry)
			return false, nil
		}
	}

	if creds.RefreshToken == "" {
		slogctx.Warn(ctx, "Access token expiring without a refresh token, log in again")
		return false, nil
	}

	slogctx.Info(ctx, "Triggering token refresh")
	if _, err := refresher.Refresh(ctx); err != nil {
		return false, err
	}

	return true, nil
}
