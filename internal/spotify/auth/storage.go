package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultTokenFileName is the default name for the token file.
const DefaultTokenFileName = "token.json"

// TokenStorage persists tokens to disk.
type TokenStorage struct {
	path string
}

// NewTokenStorage creates token storage at the given path. An empty path
// uses the default location (tempo/token.json under the user config dir).
func NewTokenStorage(path string) (*TokenStorage, error) {
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		path = filepath.Join(configDir, "tempo", DefaultTokenFileName)
	}

	return &TokenStorage{path: path}, nil
}

// Save persists a token to disk, owner-readable only.
func (s *TokenStorage) Save(token *Token) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// Load reads a token from disk. A missing file is not an error; it returns
// (nil, nil).
func (s *TokenStorage) Load() (*Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	return &token, nil
}

// Delete removes the stored token. Deleting a missing file is a no-op.
func (s *TokenStorage) Delete() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete token file: %w", err)
	}
	return nil
}

// Exists reports whether a token file exists.
func (s *TokenStorage) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Path returns the path to the token file.
func (s *TokenStorage) Path() string {
	return s.path
}
