package marketplace

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/mshando/marketplace-client/internal/serviceerr"
	"github.com/mshando/marketplace-client/pkg/apiclient"
	"github.com/mshando/marketplace-client/pkg/tokenstore"
)

// Auth talks to the authentication endpoints of the users service and owns
// the stored session credentials.
type Auth struct {
	client *apiclient.Client
}

func NewAuth(users *apiclient.Client) *Auth {
	return &Auth{client: users}
}

// Login authenticates and stores the returned token pair.
func (a *Auth) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	resp, err := apiclient.Send[AuthResponse](ctx, a.client, http.MethodPost, "/auth/login", nil, req)
	if err != nil {
		return AuthResponse{}, err
	}

	if resp.Token != "" {
		creds := tokenstore.Credentials{AccessToken: resp.Token, RefreshToken: resp.RefreshToken}
		if err := tokenstore.Save(ctx, a.client.Store(), creds); err != nil {
			return AuthResponse{}, err
		}
	}

	return resp, nil
}

func (a *Auth) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	return apiclient.Send[AuthResponse](ctx, a.client, http.MethodPost, "/auth/register", nil, req)
}

// ValidateToken asks the backend about the stored access token. Auth paths
// are sent without credentials, so the token is attached here explicitly.
func (a *Auth) ValidateToken(ctx context.Context) (TokenValidation, error) {
	creds, err := a.client.Store().Load(ctx)
	if err != nil {
		if errors.Is(err, serviceerr.ErrNotFound) {
			return TokenValidation{}, serviceerr.FromStatus(http.StatusUnauthorized, "not logged in")
		}
		return TokenValidation{}, err
	}

	return apiclient.Call[TokenValidation](ctx, a.client, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/auth/validate",
		Header: http.Header{"Authorization": {"Bearer " + creds.AccessToken}},
	})
}

// RefreshToken runs one refresh cycle and returns the stored pair.
func (a *Auth) RefreshToken(ctx context.Context) (AuthResponse, error) {
	tok, err := a.client.Refresh(ctx)
	if err != nil {
		return AuthResponse{}, err
	}

	creds, err := a.client.Store().Load(ctx)
	if err != nil {
		return AuthResponse{Token: tok}, nil
	}

	return AuthResponse{Token: creds.AccessToken, RefreshToken: creds.RefreshToken}, nil
}

func (a *Auth) VerifyEmail(ctx context.Context, token string) (APIResponse, error) {
	return apiclient.Get[APIResponse](ctx, a.client, "/auth/verify-email", url.Values{"token": {token}})
}

func (a *Auth) ResendVerification(ctx context.Context, email string) (APIResponse, error) {
	return apiclient.Send[APIResponse](ctx, a.client, http.MethodPost, "/auth/resend-verification", nil, map[string]string{"email": email})
}

func (a *Auth) VerificationStatus(ctx context.Context, email string) (VerificationStatus, error) {
	return apiclient.Get[VerificationStatus](ctx, a.client, "/auth/verification-status", url.Values{"email": {email}})
}

func (a *Auth) CurrentUser(ctx context.Context) (User, error) {
	return apiclient.Get[User](ctx, a.client, "/users/me", nil)
}

func (a *Auth) UpdateProfile(ctx context.Context, user User) (User, error) {
	return apiclient.Send[User](ctx, a.client, http.MethodPut, "/users/me", nil, user)
}

// Logout forgets the stored credentials. The backend keeps no session to end.
func (a *Auth) Logout(ctx context.Context) error {
	return a.client.Store().Clear(ctx)
}

func (a *Auth) IsAuthenticated(ctx context.Context) bool {
	return a.client.Authenticated(ctx)
}
