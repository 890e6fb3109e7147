// Package store persists the session keys (access token, refresh token,
// cached user snapshot) across runs, the way the browser app kept them in
// localStorage. The whole set is always written or cleared together so a
// crash can never leave a token without its companions.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Qoldo3/Django/model"
)

type sessionData struct {
	AccessToken  string      `json:"access_token,omitempty"`
	RefreshToken string      `json:"refresh_token,omitempty"`
	User         *model.User `json:"user,omitempty"`
}

type Store struct {
	path string

	mu   sync.Mutex
	data sessionData
}

// Open loads the session file at path. A missing or unreadable file just
// means "logged out"; it is not an error.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		// Corrupt session file, start over logged out.
		s.data = sessionData{}
	}

	return s, nil
}

func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.AccessToken
}

func (s *Store) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.RefreshToken
}

func (s *Store) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.User == nil {
		return nil
	}
	u := *s.data.User
	return &u
}

// SaveTokens persists both tokens in one write. The refresh token may be
// empty; it is stored but never redeemed by this client.
func (s *Store) SaveTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.AccessToken = access
	s.data.RefreshToken = refresh
	return s.flush()
}

func (s *Store) SaveUser(u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.data.User = nil
	} else {
		copied := *u
		s.data.User = &copied
	}
	return s.flush()
}

// Clear wipes every session key at once and removes the file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = sessionData{}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

// flush writes the session file atomically (temp file + rename) so a
// partially written file can never be observed. Caller holds the lock.
func (s *Store) flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}

	raw, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing session file: %w", err)
	}
	return nil
}
