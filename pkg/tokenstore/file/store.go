// Package tokenstorefile keeps the credential pair in a YAML file, readable
// only by its owner.
package tokenstorefile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/mshando/marketplace-client/internal/serviceerr"
	"github.com/mshando/marketplace-client/pkg/tokenstore"
)

const fileMode fs.FileMode = 0o600

type Store struct {
	mu   sync.Mutex
	path string
}

var _ = tokenstore.Store(&Store{})

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load(_ context.Context) (tokenstore.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.read()
	if err != nil {
		return tokenstore.Credentials{}, err
	}

	if c.Empty() {
		return tokenstore.Credentials{}, serviceerr.ErrNotFound
	}

	return c, nil
}

func (s *Store) SaveAccessToken(_ context.Context, tok string) error {
	return s.update(func(c *tokenstore.Credentials) { c.AccessToken = tok })
}

func (s *Store) SaveRefreshToken(_ context.Context, tok string) error {
	return s.update(func(c *tokenstore.Credentials) { c.RefreshToken = tok })
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing credentials file: %w", err)
	}

	return nil
}

func (s *Store) update(fn func(*tokenstore.Credentials)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.read()
	if err != nil {
		return err
	}

	fn(&c)

	return s.write(c)
}

func (s *Store) read() (tokenstore.Credentials, error) {
	var c tokenstore.Credentials

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("reading credentials file: %w", err)
	}

	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("decoding credentials file: %w", err)
	}

	return c, nil
}

// write replaces the file atomically so a concurrent reader never sees a
// half-written pair.
func (s *Store) write(c tokenstore.Credentials) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating credentials directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("setting file mode: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing credentials: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing credentials file: %w", err)
	}

	return nil
}
