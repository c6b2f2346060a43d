//go:build integration

package integration_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mshando/marketplace-client/internal/dbtest/tokentest"
	"github.com/mshando/marketplace-client/pkg/marketplace"
)

const (
	username = "alice"
	password = "secret"
)

// gateway fakes the marketplace API gateway. It accepts only the access
// token it issued last.
type gateway struct {
	t   *testing.T
	srv *httptest.Server

	mu            sync.Mutex
	access        string
	rejectRefresh bool

	refreshCalls atomic.Int32
}

func newGateway(t *testing.T) *gateway {
	t.Helper()

	g := &gateway{t: t}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", g.handleLogin)
	mux.HandleFunc("POST /api/auth/refresh", g.handleRefresh)
	mux.HandleFunc("GET /api/users/me", g.authorized(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, marketplace.User{ID: 1, Username: username, Email: "alice@example.com"})
	}))
	mux.HandleFunc("GET /api/tasks/{id}", g.authorized(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, marketplace.Task{ID: 7, Title: "Fix the sink"})
	}))

	g.srv = httptest.NewServer(mux)
	t.Cleanup(g.srv.Close)

	return g
}

func (g *gateway) URL() string {
	return g.srv.URL + "/api"
}

// Revoke invalidates the issued access token, as a server side expiry would.
func (g *gateway) Revoke() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.access = "revoked"
}

func (g *gateway) RejectRefresh() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.rejectRefresh = true
}

func (g *gateway) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req marketplace.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed body"})
		return
	}
	if req.Username != username || req.Password != password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "bad credentials"})
		return
	}

	writeJSON(w, http.StatusOK, marketplace.AuthResponse{
		Token:        g.issue(),
		RefreshToken: "refresh-1",
		User:         &marketplace.User{ID: 1, Username: username},
	})
}

func (g *gateway) handleRefresh(w http.ResponseWriter, _ *http.Request) {
	g.refreshCalls.Add(1)

	g.mu.Lock()
	reject := g.rejectRefresh
	g.mu.Unlock()

	if reject {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "refresh token expired"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token":        g.issue(),
		"refreshToken": "refresh-2",
	})
}

func (g *gateway) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		access := g.access
		g.mu.Unlock()

		if access == "" || r.Header.Get("Authorization") != "Bearer "+access {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
			return
		}

		next(w, r)
	}
}

func (g *gateway) issue() string {
	tok := tokentest.New(g.t, username, time.Now().Add(time.Hour), map[string]any{"role": "CUSTOMER"})

	g.mu.Lock()
	defer g.mu.Unlock()

	g.access = tok

	return tok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
