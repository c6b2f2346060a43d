package apiclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	slogctx "github.com/veqryn/slog-context"

	"github.com/mshando/marketplace-client/internal/serviceerr"
	"github.com/mshando/marketplace-client/pkg/token"
	"github.com/mshando/marketplace-client/pkg/tokenstore"
)

type ctxKey string

const retriedKey ctxKey = "retried"

// authTransport attaches the stored bearer token to outgoing requests and
// recovers once from a 401 by refreshing the token and replaying the request.
type authTransport struct {
	next      http.RoundTripper
	store     tokenstore.Store
	refresher *Refresher
	leeway    time.Duration
}

// IsAuthEndpoint reports whether path belongs to the authentication API,
// which is called without a bearer token.
func IsAuthEndpoint(path string) bool {
	return strings.Contains(path, "/auth/")
}

// credentialPaths obtain credentials rather than use them, so a 401 from
// them is final.
var credentialPaths = []string{"/auth/login", "/auth/register", RefreshPath}

// ExchangesCredentials reports whether path is a login, registration or
// refresh endpoint. A 401 from these never triggers a token refresh.
func ExchangesCredentials(path string) bool {
	path = strings.TrimSuffix(path, "/")
	for _, p := range credentialPaths {
		if strings.HasSuffix(path, p) {
			return true
		}
	}
	return false
}

// Retried reports whether the request is the replay after a token refresh.
func Retried(ctx context.Context) bool {
	v, _ := ctx.Value(retriedKey).(bool)
	return v
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	authed := req.Clone(ctx)
	sent := t.authorize(ctx, authed)

	resp, err := t.next.RoundTrip(authed)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized || ExchangesCredentials(req.URL.Path) || Retried(ctx) {
		return resp, nil
	}

	newToken, ok, err := t.recover(ctx, sent)
	if err != nil {
		drain(resp)
		return nil, err
	}
	if !ok {
		return resp, nil
	}

	replay, err := t.replay(req, newToken)
	if err != nil {
		drain(resp)
		return nil, err
	}
	drain(resp)

	slogctx.Debug(ctx, "Replaying the request with a refreshed token")

	return t.next.RoundTrip(replay)
}

// authorize sets the Authorization header when the stored access token is
// still valid, and removes any header otherwise. Auth endpoints keep the
// header the caller set. It returns the token sent.
func (t *authTransport) authorize(ctx context.Context, req *http.Request) string {
	if IsAuthEndpoint(req.URL.Path) {
		return strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer ")
	}

	req.Header.Del("Authorization")

	creds, err := t.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, serviceerr.ErrNotFound) {
			slogctx.Warn(ctx, "Could not load credentials, sending unauthenticated", "error", err)
		}
		return ""
	}

	if creds.AccessToken == "" || token.Expired(creds.AccessToken, time.Now(), t.leeway) {
		return ""
	}

	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)

	return creds.AccessToken
}

// recover obtains a token to replay with after a 401. ok is false when no
// refresh token can be read, in which case the 401 stands.
func (t *authTransport) recover(ctx context.Context, sent string) (string, bool, error) {
	creds, err := t.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, serviceerr.ErrNotFound) {
			slogctx.Warn(ctx, "Could not load credentials, skipping the token refresh", "error", err)
		}
		return "", false, nil
	}

	// Another request refreshed while this one was in flight. Without dedup
	// every rejected request runs its own refresh.
	if t.refresher.dedup && creds.AccessToken != "" && creds.AccessToken != sent && !token.Expired(creds.AccessToken, time.Now(), t.leeway) {
		return creds.AccessToken, true, nil
	}

	if creds.RefreshToken == "" {
		return "", false, nil
	}

	newToken, err := t.refresher.Refresh(ctx)
	// Compared by identity: errors.Is matches every unauthorized error.
	if err == ErrNoRefreshToken {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return newToken, true, nil
}

func (t *authTransport) replay(req *http.Request, newToken string) (*http.Request, error) {
	replay := req.Clone(context.WithValue(req.Context(), retriedKey, true))

	if req.Body != nil && req.Body != http.NoBody {
		if req.GetBody == nil {
			return nil, errors.New("request body cannot be replayed")
		}

		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("rewinding request body: %w", err)
		}
		replay.Body = body
	}

	replay.Header.Set("Authorization", "Bearer "+newToken)

	return replay, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
