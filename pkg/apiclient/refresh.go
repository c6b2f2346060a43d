package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/sync/singleflight"

	slogctx "github.com/veqryn/slog-context"

	"github.com/mshando/marketplace-client/internal/serviceerr"
	"github.com/mshando/marketplace-client/pkg/tokenstore"
)

// RefreshPath is the refresh endpoint, relative to the users service.
const RefreshPath = "/auth/refresh"

var ErrNoRefreshToken = &serviceerr.Error{Err: serviceerr.CodeUnauthorized, Description: "no refresh token available", Status: http.StatusUnauthorized}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type RefresherOption func(*Refresher)

// WithRefreshClient sets the client the refresh call is sent with. It must not
// carry the authenticating transport.
func WithRefreshClient(c *http.Client) RefresherOption {
	return func(r *Refresher) { r.client = c }
}

// WithOnSessionExpired registers the hook fired after a failed refresh has
// cleared the stored credentials. Interactive callers use it to send the
// user back to login.
func WithOnSessionExpired(fn func(ctx context.Context, cause error)) RefresherOption {
	return func(r *Refresher) { r.onExpired = fn }
}

// WithDedup collapses concurrent refresh attempts into one in-flight call.
func WithDedup(enabled bool) RefresherOption {
	return func(r *Refresher) { r.dedup = enabled }
}

// Refresher exchanges the stored refresh token for a new access token.
// One Refresher is shared by all clients of a session.
type Refresher struct {
	url       string
	store     tokenstore.Store
	client    *http.Client
	onExpired func(ctx context.Context, cause error)
	dedup     bool

	group singleflight.Group
}

func NewRefresher(refreshURL string, store tokenstore.Store, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		url:    refreshURL,
		store:  store,
		client: &http.Client{Timeout: DefaultTimeout},
		dedup:  true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Refresher) URL() string {
	return r.url
}

// Refresh runs one refresh cycle and returns the new access token. Without a
// stored refresh token it returns ErrNoRefreshToken and leaves the store as
// is. A cancelled or timed out refresh returns the context error and leaves
// the store as is. Any other failure clears the store, fires the
// session-expired hook and returns an error matching
// serviceerr.ErrSessionExpired.
func (r *Refresher) Refresh(ctx context.Context) (string, error) {
	if !r.dedup {
		return r.refresh(ctx)
	}

	// The shared refresh is not bound to the caller that started it. The
	// refresh client's timeout bounds it instead.
	ch := r.group.DoChan("refresh", func() (any, error) {
		return r.refresh(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Shared {
			slogctx.Debug(ctx, "Joined an in-flight token refresh")
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for the token refresh: %w", context.Cause(ctx))
	}
}

func (r *Refresher) refresh(ctx context.Context) (string, error) {
	creds, err := r.store.Load(ctx)
	if err != nil && !errors.Is(err, serviceerr.ErrNotFound) {
		return "", fmt.Errorf("loading credentials: %w", err)
	}

	if creds.RefreshToken == "" {
		return "", ErrNoRefreshToken
	}

	slogctx.Info(ctx, "Refreshing the access token")

	resp, err := r.exchange(ctx, creds.RefreshToken)
	if err != nil {
		return "", r.fail(ctx, err)
	}

	if err := tokenstore.Save(ctx, r.store, tokenstore.Credentials{AccessToken: resp.Token, RefreshToken: resp.RefreshToken}); err != nil {
		return "", r.fail(ctx, err)
	}

	slogctx.Info(ctx, "Refreshed the access token", "rotated_refresh_token", resp.RefreshToken != "")

	return resp.Token, nil
}

func (r *Refresher) exchange(ctx context.Context, refreshToken string) (refreshResponse, error) {
	body, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return refreshResponse{}, fmt.Errorf("encoding refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return refreshResponse{}, fmt.Errorf("creating refresh request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeJSON)

	httpResp, err := r.client.Do(req)
	if err != nil {
		return refreshResponse{}, serviceerr.Network(err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return refreshResponse{}, serviceerr.Network(err)
	}

	if !isSuccess(httpResp.StatusCode) {
		return refreshResponse{}, serviceerr.FromStatus(httpResp.StatusCode, errorMessage(data))
	}

	var resp refreshResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return refreshResponse{}, fmt.Errorf("decoding refresh response: %w", err)
	}

	if resp.Token == "" {
		return refreshResponse{}, errors.New("refresh response carries no token")
	}

	return resp, nil
}

// fail ends the session unless the refresh was interrupted before the
// backend answered.
func (r *Refresher) fail(ctx context.Context, cause error) error {
	if interrupted(ctx, cause) {
		slogctx.Warn(ctx, "Token refresh interrupted, keeping the session", "error", cause)
		return cause
	}

	return r.expire(ctx, cause)
}

func interrupted(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// expire ends the session after an unrecoverable refresh failure.
func (r *Refresher) expire(ctx context.Context, cause error) error {
	slogctx.Warn(ctx, "Token refresh failed, clearing the session", "error", cause)

	if err := r.store.Clear(ctx); err != nil {
		slogctx.Error(ctx, "Could not clear the credentials", "error", err)
	}

	if r.onExpired != nil {
		r.onExpired(ctx, cause)
	}

	return serviceerr.SessionExpired(cause)
}
