package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Session is the signed-in state of a client.
type Session struct {
	Token     string    `json:"token"`
	User      *User     `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SignedIn reports whether the session carries a token.
func (s Session) SignedIn() bool {
	return s.Token != ""
}

// Expired reports whether the token's expiry has passed at now. A session
// without a recorded expiry never expires locally; the server still decides.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// SessionStore persists the current session.
type SessionStore interface {
	Load() Session
	Save(Session) error
	Clear() error
}

// MemorySession keeps the session in memory only.
type MemorySession struct {
	mu      sync.RWMutex
	current Session
}

var _ SessionStore = (*MemorySession)(nil)

// Load returns the current session.
func (m *MemorySession) Load() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Save replaces the current session.
func (m *MemorySession) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = s
	return nil
}

// Clear forgets the current session.
func (m *MemorySession) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = Session{}
	return nil
}

// FileSession persists the session as JSON in a file.
type FileSession struct {
	path    string
	mu      sync.RWMutex
	current Session
}

var _ SessionStore = (*FileSession)(nil)

// NewFileSession opens the session stored at path. A missing file is an
// empty session.
func NewFileSession(path string) (*FileSession, error) {
	fsess := &FileSession{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fsess, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	if len(data) == 0 {
		return fsess, nil
	}
	if err := json.Unmarshal(data, &fsess.current); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", path, err)
	}
	return fsess, nil
}

// DefaultSessionPath returns the session file under the user's config directory.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(dir, "taskctl", "session.json"), nil
}

// Load returns the current session.
func (f *FileSession) Load() Session {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.current
}

// Save writes the session to disk with owner-only permissions.
func (f *FileSession) Save(s Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	f.current = s
	return nil
}

// Clear removes the session file.
func (f *FileSession) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.current = Session{}
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
