package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const sessionFile = "estoquehub_session.json"

// ErrNoSession is returned by Load when no usable session is stored.
var ErrNoSession = errors.New("no session")

// SessionStore keeps one session as JSON in dir.
type SessionStore struct {
	dir string
}

// NewSessionStore uses dir, or <user config dir>/estoquehub when dir is empty.
func NewSessionStore(dir string) (*SessionStore, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config dir: %w", err)
		}
		dir = filepath.Join(base, "estoquehub")
	}
	return &SessionStore{dir: dir}, nil
}

// Path returns the session file location
func (s *SessionStore) Path() string {
	return filepath.Join(s.dir, sessionFile)
}

// Load reads the stored session
func (s *SessionStore) Load() (*Session, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, ErrNoSession
	}
	return &session, nil
}

// Save writes session to disk, readable only by the owner
func (s *SessionStore) Save(session *Session) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(s.Path(), data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear removes the stored session. Clearing an absent session is not an error.
func (s *SessionStore) Clear() error {
	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
