package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// TokenStore persists the bearer credential between runs.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// sessionFile is the on-disk document. authToken is its only key.
type sessionFile struct {
	AuthToken string `yaml:"authToken"`
}

// FileTokenStore keeps the token in a small YAML file readable only by the
// owner.
type FileTokenStore struct {
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Path() string { return s.path }

func (s *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading session file: %w", err)
	}

	var doc sessionFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("parsing session file: %w", err)
	}
	return doc.AuthToken, nil
}

func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	data, err := yaml.Marshal(sessionFile{AuthToken: token})
	if err != nil {
		return fmt.Errorf("encoding session file: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

// MemoryTokenStore is a TokenStore that forgets everything on exit.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func (s *MemoryTokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	return s.Save("")
}

// Session holds the bearer credential for one user and is handed to the
// Client explicitly. Its lifecycle is Acquire at start, Set after login,
// Invalidate on any 401 and Clear on logout.
type Session struct {
	mu      sync.RWMutex
	store   TokenStore
	token   string
	expired bool
}

func NewSession(store TokenStore) *Session {
	if store == nil {
		store = &MemoryTokenStore{}
	}
	return &Session{store: store}
}

// Acquire loads the persisted token, if any.
func (s *Session) Acquire() (string, error) {
	token, err := s.store.Load()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.token = token
	s.expired = false
	s.mu.Unlock()
	return token, nil
}

func (s *Session) Set(token string) error {
	s.mu.Lock()
	s.token = token
	s.expired = false
	s.mu.Unlock()
	return s.store.Save(token)
}

// Token returns the current bearer credential, or "" when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Expired reports whether the last credential was rejected by the server.
func (s *Session) Expired() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expired
}

// Invalidate drops a credential the server rejected.
func (s *Session) Invalidate() error {
	s.mu.Lock()
	hadToken := s.token != ""
	s.token = ""
	s.expired = hadToken
	s.mu.Unlock()
	return s.store.Clear()
}

// Clear ends the session on logout.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.expired = false
	s.mu.Unlock()
	return s.store.Clear()
}
