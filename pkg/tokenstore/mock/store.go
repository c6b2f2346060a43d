package tokenstoremock

import (
	"context"
	"sync"

	"github.com/mshando/marketplace-client/internal/serviceerr"
	"github.com/mshando/marketplace-client/pkg/tokenstore"
)

type StoreOption func(*Store)

// Store is an in-memory tokenstore.Store with injectable failures and call counters.
type Store struct {
	mu    sync.Mutex
	creds tokenstore.Credentials

	loadErr, saveAccessErr, saveRefreshErr, clearErr error

	saves  int
	clears int
}

func WithCredentials(access, refresh string) StoreOption {
	return func(s *Store) { s.creds = tokenstore.Credentials{AccessToken: access, RefreshToken: refresh} }
}
func WithLoadError(err error) StoreOption {
	return func(s *Store) { s.loadErr = err }
}
func WithSaveAccessError(err error) StoreOption {
	return func(s *Store) { s.saveAccessErr = err }
}
func WithSaveRefreshError(err error) StoreOption {
	return func(s *Store) { s.saveRefreshErr = err }
}
func WithClearError(err error) StoreOption {
	return func(s *Store) { s.clearErr = err }
}

var _ = tokenstore.Store(&Store{})

func NewInMemStore(opts ...StoreOption) *Store {
	s := &Store{}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// TGet is a helper method for tests to read the stored pair.
func (s *Store) TGet() tokenstore.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds
}

// TSaves returns how many access tokens were saved.
func (s *Store) TSaves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// TClears returns how many times the store was cleared.
func (s *Store) TClears() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears
}

func (s *Store) Load(_ context.Context) (tokenstore.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loadErr != nil {
		return tokenstore.Credentials{}, s.loadErr
	}
	if s.creds.Empty() {
		return tokenstore.Credentials{}, serviceerr.ErrNotFound
	}
	return s.creds, nil
}

func (s *Store) SaveAccessToken(_ context.Context, tok string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveAccessErr != nil {
		return s.saveAccessErr
	}
	s.creds.AccessToken = tok
	s.saves++
	return nil
}

func (s *Store) SaveRefreshToken(_ context.Context, tok string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveRefreshErr != nil {
		return s.saveRefreshErr
	}
	s.creds.RefreshToken = tok
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.clearErr != nil {
		return s.clearErr
	}
	s.creds = tokenstore.Credentials{}
	s.clears++
	return nil
}
