// Package business wires the configured credential store and API clients
// into the marketplace services, and runs the proactive token refresher.
package business

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	slogctx "github.com/veqryn/slog-context"

	"github.com/mshando/marketplace-client/internal/config"
	"github.com/mshando/marketplace-client/pkg/apiclient"
	"github.com/mshando/marketplace-client/pkg/marketplace"
	"github.com/mshando/marketplace-client/pkg/tokenstore"
)

// Services bundles one typed client per backend service. All of them share
// the credential store and a single refresher.
type Services struct {
	Store     tokenstore.Store
	Refresher *apiclient.Refresher

	Auth          *marketplace.Auth
	Users         *marketplace.Users
	Tasks         *marketplace.Tasks
	Categories    *marketplace.Categories
	Bids          *marketplace.Bids
	Payments      *marketplace.Payments
	Notifications *marketplace.Notifications
	Admin         *marketplace.Admin

	users *apiclient.Client
}

// Authenticated reports whether an unexpired access token is stored.
func (s *Services) Authenticated(ctx context.Context) bool {
	return s.users.Authenticated(ctx)
}

// NewServices opens the credential store and builds the service clients.
// Extra options are applied to every client after the configured ones.
func NewServices(ctx context.Context, cfg *config.Config, opts ...apiclient.Option) (_ *Services, closeFn func(), _ error) {
	store, closeFn, err := NewStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening the token store: %w", err)
	}

	svc, err := newServices(cfg, store, opts...)
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	return svc, closeFn, nil
}

func newServices(cfg *config.Config, store tokenstore.Store, opts ...apiclient.Option) (*Services, error) {
	refresher := apiclient.NewRefresher(
		strings.TrimSuffix(cfg.Services.Users, "/")+apiclient.RefreshPath,
		store,
		apiclient.WithRefreshClient(&http.Client{Timeout: cfg.Client.Timeout}),
		apiclient.WithDedup(!cfg.Client.DisableRefreshDedup),
		apiclient.WithOnSessionExpired(func(ctx context.Context, cause error) {
			slogctx.Warn(ctx, "Session expired, log in again", "error", cause)
		}),
	)

	clientOpts := []apiclient.Option{
		apiclient.WithTimeout(cfg.Client.Timeout),
		apiclient.WithLeeway(cfg.Client.Leeway),
		apiclient.WithRefresher(refresher),
	}
	if cfg.Client.UserAgent != "" {
		clientOpts = append(clientOpts, apiclient.WithUserAgent(cfg.Client.UserAgent))
	}
	clientOpts = append(clientOpts, opts...)

	newClient := func(name, baseURL string) (*apiclient.Client, error) {
		c, err := apiclient.New(baseURL, store, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("creating the %s client: %w", name, err)
		}

		return c, nil
	}

	users, err := newClient("users", cfg.Services.Users)
	if err != nil {
		return nil, err
	}
	tasks, err := newClient("tasks", cfg.Services.Tasks)
	if err != nil {
		return nil, err
	}
	bidding, err := newClient("bidding", cfg.Services.Bidding)
	if err != nil {
		return nil, err
	}
	payments, err := newClient("payments", cfg.Services.Payments)
	if err != nil {
		return nil, err
	}
	notifications, err := newClient("notifications", cfg.Services.Notifications)
	if err != nil {
		return nil, err
	}

	return &Services{
		Store:         store,
		Refresher:     refresher,
		Auth:          marketplace.NewAuth(users),
		Users:         marketplace.NewUsers(users),
		Tasks:         marketplace.NewTasks(tasks),
		Categories:    marketplace.NewCategories(tasks),
		Bids:          marketplace.NewBids(bidding),
		Payments:      marketplace.NewPayments(payments),
		Notifications: marketplace.NewNotifications(notifications),
		Admin:         marketplace.NewAdmin(users, bidding, payments),
		users:         users,
	}, nil
}
