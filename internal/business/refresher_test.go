package business

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mshando/marketplace-client/internal/config"
	"github.com/mshando/marketplace-client/internal/dbtest/tokentest"
	"github.com/mshando/marketplace-client/internal/serviceerr"
	"github.com/mshando/marketplace-client/pkg/apiclient"
	tokenstoremock "github.com/mshando/marketplace-client/pkg/tokenstore/mock"
)

type refreshServer struct {
	url    string
	calls  atomic.Int32
	status int
	token  string
}

func newRefreshServer(t *testing.T, status int) *refreshServer {
	t.Helper()

	rs := &refreshServer{status: status, token: tokentest.Valid(t, "alice")}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		rs.calls.Add(1)
		if rs.status != http.StatusOK {
			writeJSON(w, rs.status, map[string]string{"message": "invalid refresh token"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"token": rs.token})
	}))
	t.Cleanup(srv.Close)

	rs.url = srv.URL + apiclient.RefreshPath

	return rs
}

func TestRefreshIfExpiring(t *testing.T) {
	now := time.Now()
	threshold := 5 * time.Minute

	tests := []struct {
		name          string
		opts          []tokenstoremock.StoreOption
		status        int
		wantRefreshed bool
		wantCalls     int32
		wantErr       error
	}{
		{
			name: "nothing stored",
		},
		{
			name: "fresh token",
			opts: []tokenstoremock.StoreOption{tokenstoremock.WithCredentials(tokentest.New(t, "alice", now.Add(time.Hour), nil), "refresh")},
		},
		{
			name:          "token inside the threshold",
			opts:          []tokenstoremock.StoreOption{tokenstoremock.WithCredentials(tokentest.New(t, "alice", now.Add(time.Minute), nil), "refresh")},
			wantRefreshed: true,
			wantCalls:     1,
		},
		{
			name:          "access token missing",
			opts:          []tokenstoremock.StoreOption{tokenstoremock.WithCredentials("", "refresh")},
			wantRefreshed: true,
			wantCalls:     1,
		},
		{
			name: "expired without refresh token",
			opts: []tokenstoremock.StoreOption{tokenstoremock.WithCredentials(tokentest.Expired(t, "alice"), "")},
		},
		{
			name:      "refresh rejected",
			opts:      []tokenstoremock.StoreOption{tokenstoremock.WithCredentials(tokentest.Expired(t, "alice"), "refresh")},
			status:    http.StatusUnauthorized,
			wantCalls: 1,
			wantErr:   serviceerr.ErrSessionExpired,
		},
		{
			name:    "store failure",
			opts:    []tokenstoremock.StoreOption{tokenstoremock.WithLoadError(assert.AnError)},
			wantErr: assert.AnError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := tt.status
			if status == 0 {
				status = http.StatusOK
			}
			rs := newRefreshServer(t, status)
			store := tokenstoremock.NewInMemStore(tt.opts...)
			refresher := apiclient.NewRefresher(rs.url, store)

			refreshed, err := refreshIfExpiring(t.Context(), store, refresher, now, threshold)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantRefreshed, refreshed)
			assert.Equal(t, tt.wantCalls, rs.calls.Load())
			if tt.wantRefreshed {
				assert.Equal(t, rs.token, store.TGet().AccessToken)
			}
		})
	}
}

func TestStartTokenRefresher(t *testing.T) {
	conf := config.TokenRefresher{Interval: 10 * time.Millisecond, Threshold: 5 * time.Minute}

	t.Run("stops with the context", func(t *testing.T) {
		rs := newRefreshServer(t, http.StatusOK)
		store := tokenstoremock.NewInMemStore(tokenstoremock.WithCredentials(tokentest.Valid(t, "alice"), "refresh"))

		ctx, cancel := context.WithTimeout(t.Context(), 100*time.Millisecond)
		defer cancel()

		err := startTokenRefresher(ctx, store, apiclient.NewRefresher(rs.url, store), conf)
		assert.NoError(t, err)
		assert.Zero(t, rs.calls.Load())
	})

	t.Run("refreshes an expiring token once per tick", func(t *testing.T) {
		rs := newRefreshServer(t, http.StatusOK)
		store := tokenstoremock.NewInMemStore(tokenstoremock.WithCredentials(tokentest.Expired(t, "alice"), "refresh"))

		ctx, cancel := context.WithTimeout(t.Context(), 100*time.Millisecond)
		defer cancel()

		err := startTokenRefresher(ctx, store, apiclient.NewRefresher(rs.url, store), conf)
		assert.NoError(t, err)

		// the refreshed token is good for an hour, later ticks leave it alone
		assert.Equal(t, int32(1), rs.calls.Load())
		assert.Equal(t, rs.token, store.TGet().AccessToken)
	})

	t.Run("shutdown during a refresh keeps the session", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"message": "shutting down"})
		}))
		t.Cleanup(srv.Close)
		t.Cleanup(func() { close(release) })

		expired := tokentest.Expired(t, "alice")
		store := tokenstoremock.NewInMemStore(tokenstoremock.WithCredentials(expired, "refresh"))
		refresher := apiclient.NewRefresher(srv.URL+apiclient.RefreshPath, store,
			apiclient.WithDedup(false),
		)

		ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
		defer cancel()

		err := startTokenRefresher(ctx, store, refresher, conf)
		assert.NoError(t, err)
		assert.Zero(t, store.TClears())
		assert.Equal(t, expired, store.TGet().AccessToken)
		assert.Equal(t, "refresh", store.TGet().RefreshToken)
	})

	t.Run("ends when the session expires", func(t *testing.T) {
		rs := newRefreshServer(t, http.StatusUnauthorized)
		store := tokenstoremock.NewInMemStore(tokenstoremock.WithCredentials(tokentest.Expired(t, "alice"), "refresh"))

		err := startTokenRefresher(t.Context(), store, apiclient.NewRefresher(rs.url, store), conf)
		assert.ErrorIs(t, err, serviceerr.ErrSessionExpired)
		assert.Equal(t, 1, store.TClears())
	})
}

func TestTokenRefresherMain_InvalidConfig(t *testing.T) {
	err := TokenRefresherMain(t.Context(), &config.Config{TokenStore: config.TokenStore{Type: "cookie"}})
	assert.ErrorContains(t, err, "initialising the services")
}
