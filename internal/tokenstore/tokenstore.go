// ABOUTME: Durable key/value storage for session credentials
// ABOUTME: Persists a JSON document under the config directory through afero

package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// AccessTokenKey is the storage key for the bearer credential
const AccessTokenKey = "access_token"

const fileName = "storage.json"

// Store is a small persistent map. Every write rewrites the whole file.
type Store struct {
	fs  afero.Fs
	dir string

	mu     sync.Mutex
	values map[string]string
	loaded bool
}

// New creates a store rooted at dir on the given filesystem
func New(fsys afero.Fs, dir string) *Store {
	return &Store{fs: fsys, dir: dir}
}

// NewOS creates a store backed by the real filesystem
func NewOS(dir string) *Store {
	return New(afero.NewOsFs(), dir)
}

// Path returns the location of the backing file
func (s *Store) Path() string {
	return filepath.Join(s.dir, fileName)
}

// Get returns the value for key and whether it was present
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return "", false, err
	}
	v, ok := s.values[key]
	return v, ok, nil
}

// Set stores value under key and persists
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	s.values[key] = value
	return s.save()
}

// Remove deletes key and persists. Removing a missing key is not an error.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.save()
}

// AccessToken returns the stored bearer token or "" when none is stored.
// An unreadable store reads as empty.
func (s *Store) AccessToken() string {
	v, _, err := s.Get(AccessTokenKey)
	if err != nil {
		return ""
	}
	return v
}

// SetAccessToken persists the bearer token
func (s *Store) SetAccessToken(token string) error {
	return s.Set(AccessTokenKey, token)
}

// ClearAccessToken removes the bearer token
func (s *Store) ClearAccessToken() error {
	return s.Remove(AccessTokenKey)
}

func (s *Store) load() error {
	if s.loaded {
		return nil
	}

	data, err := afero.ReadFile(s.fs, s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		s.values = map[string]string{}
		s.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading token store: %w", err)
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		// Corrupt file, start fresh
		values = map[string]string{}
	}
	s.values = values
	s.loaded = true
	return nil
}

func (s *Store) save() error {
	if err := s.fs.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.Path() + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0600); err != nil {
		return fmt.Errorf("writing token store: %w", err)
	}
	if err := s.fs.Rename(tmp, s.Path()); err != nil {
		s.fs.Remove(tmp)
		return fmt.Errorf("replacing token store: %w", err)
	}
	return nil
}
