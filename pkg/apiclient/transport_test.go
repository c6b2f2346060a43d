package apiclient_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mshando/marketplace-client/internal/dbtest/tokentest"
	"github.com/mshando/marketplace-client/pkg/apiclient"
	tokenstoremock "github.com/mshando/marketplace-client/pkg/tokenstore/mock"
)

func TestIsAuthEndpoint(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{path: "/auth/login", expected: true},
		{path: "/auth/refresh", expected: true},
		{path: "/api/auth/register", expected: true},
		{path: "/users/me", expected: false},
		{path: "/authors", expected: false},
		{path: "/", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, apiclient.IsAuthEndpoint(tt.path))
		})
	}
}

func TestExchangesCredentials(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{path: "/auth/login", expected: true},
		{path: "/api/auth/register", expected: true},
		{path: "/api/auth/refresh/", expected: true},
		{path: "/auth/validate", expected: false},
		{path: "/auth/verify-email", expected: false},
		{path: "/users/me", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, apiclient.ExchangesCredentials(tt.path))
		})
	}
}

func TestRetried(t *testing.T) {
	assert.False(t, apiclient.Retried(t.Context()))
}

func TestTransport_ForwardsCustomBaseTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"via": r.Header.Get("X-Via")})
	}))
	t.Cleanup(srv.Close)

	base := &http.Client{Transport: headerTransport{name: "X-Via", value: "gateway"}}
	store := tokenstoremock.NewInMemStore(tokenstoremock.WithCredentials(tokentest.Valid(t, "amani"), "r"))
	c := newClient(t, srv.URL, store, apiclient.WithHTTPClient(base))

	out, err := apiclient.Get[map[string]string](t.Context(), c, "/ping", nil)
	require.NoError(t, err)

	assert.Equal(t, "gateway", out["via"])
}

func TestTransport_ReplaysRawBody(t *testing.T) {
	b := newBackend(t)

	store := tokenstoremock.NewInMemStore(tokenstoremock.WithCredentials(tokentest.Expired(t, "amani"), "refresh-0"))
	c := newClient(t, b.URL(), store)

	_, err := c.Do(t.Context(), apiclient.Request{
		Method:      http.MethodPost,
		Path:        "/tasks",
		RawBody:     []byte(`{"title":"x"}`),
		ContentType: "application/json",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{`{"title":"x"}`, `{"title":"x"}`}, b.postedBodies())
}

type headerTransport struct {
	name, value string
}

func (h headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set(h.name, h.value)
	return http.DefaultTransport.RoundTrip(req)
}

func TestTransport_TokenRotatedWhileInFlight(t *testing.T) {
	tests := []struct {
		name          string
		dedup         bool
		wantRefreshes int32
	}{
		{name: "reuses the rotated token", dedup: true, wantRefreshes: 0},
		{name: "refreshes on its own without dedup", dedup: false, wantRefreshes: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := tokentest.Valid(t, "amani")
			rotated := tokentest.Valid(t, "amani")
			own := tokentest.Valid(t, "amani")

			var store *tokenstoremock.Store
			var refreshes atomic.Int32

			mux := http.NewServeMux()
			mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, _ *http.Request) {
				refreshes.Add(1)
				writeJSON(w, http.StatusOK, map[string]string{"token": own})
			})
			mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
				switch r.Header.Get("Authorization") {
				case "Bearer " + first:
					// a concurrent request rotates the stored token meanwhile
					_ = store.SaveAccessToken(r.Context(), rotated)
					writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
				case "Bearer " + rotated, "Bearer " + own:
					writeJSON(w, http.StatusOK, map[string]any{"id": 42, "username": "amani"})
				default:
					writeJSON(w, http.StatusUnauthorized, nil)
				}
			})
			srv := httptest.NewServer(mux)
			t.Cleanup(srv.Close)

			store = tokenstoremock.NewInMemStore(tokenstoremock.WithCredentials(first, "refresh-0"))
			refresher := apiclient.NewRefresher(srv.URL+apiclient.RefreshPath, store, apiclient.WithDedup(tt.dedup))
			c := newClient(t, srv.URL, store, apiclient.WithRefresher(refresher))

			me, err := apiclient.Get[user](t.Context(), c, "/users/me", nil)
			require.NoError(t, err)

			assert.Equal(t, 42, me.ID)
			assert.Equal(t, tt.wantRefreshes, refreshes.Load())
		})
	}
}
