package marketplace

import (
	"context"
	"net/http"

	"github.com/mshando/marketplace-client/pkg/apiclient"
)

// Users manages the profile of the logged-in user.
type Users struct {
	client *apiclient.Client
}

func NewUsers(users *apiclient.Client) *Users {
	return &Users{client: users}
}

func (u *Users) Me(ctx context.Context) (User, error) {
	return apiclient.Get[User](ctx, u.client, "/users/me", nil)
}

func (u *Users) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (User, error) {
	return apiclient.Send[User](ctx, u.client, http.MethodPut, "/users/me", nil, req)
}

func (u *Users) DeleteAccount(ctx context.Context) error {
	return apiclient.Exec(ctx, u.client, http.MethodDelete, "/users/me", nil, nil)
}

func (u *Users) ChangePassword(ctx context.Context, current, next string) error {
	return apiclient.Exec(ctx, u.client, http.MethodPost, "/users/me/change-password", nil, ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
	})
}
