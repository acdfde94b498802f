package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const tokenFileName = "token"

// DefaultTokenPath returns the per-user location of the token file.
func DefaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "estoque", tokenFileName)
}

// FileStore keeps the token in a file readable only by its owner.
type FileStore struct {
	path string
}

// NewFileStore returns a store writing to path, or to DefaultTokenPath when
// path is empty.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultTokenPath()
	}
	return &FileStore{path: path}
}

// Path returns the token file location.
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read token file %s: %w", f.path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (f *FileStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(f.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token file %s: %w", f.path, err)
	}
	return nil
}

func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file %s: %w", f.path, err)
	}
	return nil
}

// MemoryStore keeps the token in memory. Gateway editor sessions and tests use it.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStore returns a store preloaded with token.
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (m *MemoryStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryStore) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
