// Package sessionfile persists the signed session token between CLI runs
// so an operator who restarts the shell within the session lifetime is not
// forced to log in again.
package sessionfile

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Store reads and writes the session token at a fixed path. The file is
// owner-readable only; the token inside is already signed, so tampering
// only invalidates it.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Save writes the token, replacing any previous one.
func (s *Store) Save(token string) error {
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Load returns the stored token. A missing file is not an error; ok is
// false.
func (s *Store) Load() (string, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read session file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false, nil
	}
	return token, true, nil
}

// Clear removes the stored token. A missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
