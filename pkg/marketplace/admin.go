package marketplace

import (
	"context"
	"net/http"

	"github.com/mshando/marketplace-client/pkg/apiclient"
)

// Admin groups the administration endpoints, which are spread over the
// users, bidding and payment services.
type Admin struct {
	users    *apiclient.Client
	bidding  *apiclient.Client
	payments *apiclient.Client
}

func NewAdmin(users, bidding, payments *apiclient.Client) *Admin {
	return &Admin{users: users, bidding: bidding, payments: payments}
}

func (a *Admin) SearchUsers(ctx context.Context, params UserSearchParams) (Page[User], error) {
	q := newQuery()
	opt(q, "username", params.Username)
	opt(q, "email", params.Email)
	opt(q, "role", params.Role)
	opt(q, "active", params.Active)
	opt(q, "page", params.Page)
	opt(q, "size", params.Size)

	values, err := q.build()
	if err != nil {
		return Page[User]{}, err
	}

	return apiclient.Get[Page[User]](ctx, a.users, "/users/search", values)
}

func (a *Admin) AllUsers(ctx context.Context, page, size int) (Page[User], error) {
	values, err := newQuery().page(page, size).build()
	if err != nil {
		return Page[User]{}, err
	}

	return apiclient.Get[Page[User]](ctx, a.users, "/users", values)
}

func (a *Admin) GetUser(ctx context.Context, id int64) (User, error) {
	path, err := expand("/users/{id}", p("id", id))
	if err != nil {
		return User{}, err
	}

	return apiclient.Get[User](ctx, a.users, path, nil)
}

func (a *Admin) DeleteUser(ctx context.Context, id int64) error {
	path, err := expand("/users/{id}", p("id", id))
	if err != nil {
		return err
	}

	return apiclient.Exec(ctx, a.users, http.MethodDelete, path, nil, nil)
}

func (a *Admin) ActivateUser(ctx context.Context, id int64) (User, error) {
	return a.userTransition(ctx, id, "activate")
}

func (a *Admin) DeactivateUser(ctx context.Context, id int64) (User, error) {
	return a.userTransition(ctx, id, "deactivate")
}

func (a *Admin) userTransition(ctx context.Context, id int64, action string) (User, error) {
	path, err := expand("/users/{id}/{action}", p("id", id), p("action", action))
	if err != nil {
		return User{}, err
	}

	return apiclient.Send[User](ctx, a.users, http.MethodPatch, path, nil, nil)
}

func (a *Admin) Stats(ctx context.Context) (AdminStats, error) {
	return apiclient.Get[AdminStats](ctx, a.users, "/admin/statistics", nil)
}

func (a *Admin) BidStatistics(ctx context.Context) (BidStatistics, error) {
	return apiclient.Get[BidStatistics](ctx, a.bidding, "/bids/statistics", nil)
}

func (a *Admin) PaymentStatistics(ctx context.Context) (PaymentStatistics, error) {
	return apiclient.Get[PaymentStatistics](ctx, a.payments, "/payments/statistics", nil)
}

func (a *Admin) UserStatistics(ctx context.Context) (UserStatistics, error) {
	return apiclient.Get[UserStatistics](ctx, a.users, "/users/statistics", nil)
}

func (a *Admin) ServiceFees(ctx context.Context) (ServiceFees, error) {
	return apiclient.Get[ServiceFees](ctx, a.payments, "/payments/service-fees", nil)
}

func (a *Admin) PlatformHealth(ctx context.Context) (PlatformHealth, error) {
	return apiclient.Get[PlatformHealth](ctx, a.users, "/admin/health", nil)
}

// RecentActivity returns the latest platform events, newest first. A
// non-positive limit asks for the backend default of ten.
func (a *Admin) RecentActivity(ctx context.Context, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = 10
	}

	values, err := newQuery().add("limit", limit).build()
	if err != nil {
		return nil, err
	}

	return apiclient.Get[[]Activity](ctx, a.users, "/admin/activity", values)
}

func (a *Admin) SystemConfig(ctx context.Context) (SystemConfig, error) {
	return apiclient.Get[SystemConfig](ctx, a.users, "/admin/config", nil)
}

// UpdateSystemConfig patches the fields set in cfg.
func (a *Admin) UpdateSystemConfig(ctx context.Context, cfg SystemConfig) error {
	return apiclient.Exec(ctx, a.users, http.MethodPatch, "/admin/config", nil, cfg)
}
