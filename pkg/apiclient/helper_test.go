package apiclient_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mshando/marketplace-client/internal/dbtest/tokentest"
	"github.com/mshando/marketplace-client/pkg/apiclient"
	tokenstoremock "github.com/mshando/marketplace-client/pkg/tokenstore/mock"
)

// backend is a fake users service. It accepts only the access token it
// issued last and rotates the refresh token on every refresh.
type backend struct {
	t   *testing.T
	srv *httptest.Server

	mu           sync.Mutex
	validAccess  string
	validRefresh string
	bodies       []string
	authHeaders  []string

	refreshCalls  atomic.Int32
	refreshStatus int
	refreshDelay  time.Duration
	rejectAll     bool
	meCalls       atomic.Int32

	// gate holds rejected requests until gateN of them have arrived.
	gate    chan struct{}
	gateN   int32
	gateHit atomic.Int32
}

// holdRejections makes the first n rejected requests wait for each other
// before answering 401.
func (b *backend) holdRejections(n int32) {
	b.gate = make(chan struct{})
	b.gateN = n
}

func (b *backend) waitGate() {
	if b.gate == nil {
		return
	}

	if b.gateHit.Add(1) == b.gateN {
		close(b.gate)
	}

	select {
	case <-b.gate:
	case <-time.After(5 * time.Second):
	}
}

func newBackend(t *testing.T) *backend {
	t.Helper()

	b := &backend{
		t:             t,
		validRefresh:  "refresh-0",
		refreshStatus: http.StatusOK,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/refresh", b.handleRefresh)
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "bad credentials"})
	})
	mux.HandleFunc("GET /auth/validate", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"valid": true})
	})
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		b.meCalls.Add(1)
		if !b.authorized(r) {
			b.waitGate()
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": 42, "username": "amani"})
	})
	mux.HandleFunc("POST /tasks", func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.bodies = append(b.bodies, string(data))
		b.mu.Unlock()

		if !b.authorized(r) {
			writeJSON(w, http.StatusUnauthorized, nil)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"id": 7})
	})

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)

	return b
}

func (b *backend) URL() string {
	return b.srv.URL
}

func (b *backend) authorized(r *http.Request) bool {
	header := r.Header.Get("Authorization")

	b.mu.Lock()
	defer b.mu.Unlock()

	b.authHeaders = append(b.authHeaders, header)

	return !b.rejectAll && b.validAccess != "" && header == "Bearer "+b.validAccess
}

func (b *backend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	n := b.refreshCalls.Add(1)
	time.Sleep(b.refreshDelay)

	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(b.t, json.NewDecoder(r.Body).Decode(&req))

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.refreshStatus != http.StatusOK {
		writeJSON(w, b.refreshStatus, map[string]string{"message": "refresh token revoked"})
		return
	}
	if req.RefreshToken != b.validRefresh {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unknown refresh token"})
		return
	}

	b.validAccess = tokentest.Valid(b.t, "amani")
	b.validRefresh = "refresh-" + strings.Repeat("x", int(n))

	writeJSON(w, http.StatusOK, map[string]string{
		"token":        b.validAccess,
		"refreshToken": b.validRefresh,
	})
}

// issue makes token the one the backend accepts.
func (b *backend) issue(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.validAccess = token
}

func (b *backend) headers() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.authHeaders...)
}

func (b *backend) postedBodies() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.bodies...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func newClient(t *testing.T, baseURL string, store *tokenstoremock.Store, opts ...apiclient.Option) *apiclient.Client {
	t.Helper()

	c, err := apiclient.New(baseURL, store, opts...)
	require.NoError(t, err)

	return c
}

type user struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}
