// Package session holds the access token that authenticates backend calls.
//
// A Session is created explicitly and handed to whatever issues requests; it
// is established at login and torn down at logout. The token itself lives in a
// Store so the terminal client keeps it across invocations.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrNotAuthenticated is returned by Require when no token is held.
var ErrNotAuthenticated = errors.New("session: not logged in")

// Store persists the access token.
type Store interface {
	// Load returns the stored token, or an empty string when none is stored.
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Session is the explicit authentication context of one client.
type Session struct {
	store Store

	mu    sync.RWMutex
	token string
}

// Open restores a session from the store.
func Open(store Store) (*Session, error) {
	if store == nil {
		store = NewMemoryStore("")
	}
	token, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load session token: %w", err)
	}
	return &Session{store: store, token: strings.TrimSpace(token)}, nil
}

// Token returns the current access token, or an empty string.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Require returns ErrNotAuthenticated when no token is held.
func (s *Session) Require() error {
	if !s.Authenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

// Establish stores a freshly issued token.
func (s *Session) Establish(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("session: empty token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(token); err != nil {
		return fmt.Errorf("save session token: %w", err)
	}
	s.token = token
	return nil
}

// TearDown forgets the token and removes it from the store.
func (s *Session) TearDown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	return nil
}
