package auth

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTokenStorage(t *testing.T) {
	tokenPath := filepath.Join(t.TempDir(), "token.json")

	storage, err := NewTokenStorage(tokenPath)
	if err != nil {
		t.Fatalf("NewTokenStorage() error = %v", err)
	}

	if storage.Exists() {
		t.Error("Exists() = true, want false for new storage")
	}

	// Missing file is not an error.
	token, err := storage.Load()
	if err != nil {
		t.Errorf("Load() error = %v", err)
	}
	if token != nil {
		t.Error("Load() = non-nil for missing token file")
	}

	testToken := &Token{
		AccessToken:  "access_123",
		TokenType:    "Bearer",
		Scope:        "user-read-playback-state",
		ExpiresIn:    3600,
		RefreshToken: "refresh_456",
		ExpiresAt:    time.Now().Add(1 * time.Hour),
	}

	if err := storage.Save(testToken); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if !storage.Exists() {
		t.Error("Exists() = false after save, want true")
	}

	loaded, err := storage.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.AccessToken != testToken.AccessToken {
		t.Errorf("AccessToken = %q, want %q", loaded.AccessToken, testToken.AccessToken)
	}
	if loaded.RefreshToken != testToken.RefreshToken {
		t.Errorf("RefreshToken = %q, want %q", loaded.RefreshToken, testToken.RefreshToken)
	}

	info, err := os.Stat(tokenPath)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("token file permissions = %o, want 0600", mode)
	}

	if err := storage.Delete(); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if storage.Exists() {
		t.Error("Exists() = true after delete, want false")
	}
}

func TestTokenStorageNestedDirectory(t *testing.T) {
	tokenPath := filepath.Join(t.TempDir(), "nested", "dir", "token.json")

	storage, err := NewTokenStorage(tokenPath)
	if err != nil {
		t.Fatalf("NewTokenStorage() error = %v", err)
	}

	if err := storage.Save(&Token{AccessToken: "test"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if !storage.Exists() {
		t.Error("token file not created in nested directory")
	}
}

func TestTokenStorageDeleteNonExistent(t *testing.T) {
	storage, err := NewTokenStorage(filepath.Join(t.TempDir(), "nonexistent.json"))
	if err != nil {
		t.Fatalf("NewTokenStorage() error = %v", err)
	}

	if err := storage.Delete(); err != nil {
		t.Errorf("Delete() on missing file error = %v", err)
	}
}

func TestTokenStorageDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	storage, err := NewTokenStorage("")
	if err != nil {
		t.Fatalf("NewTokenStorage(\"\") error = %v", err)
	}

	want := filepath.Join("tempo", DefaultTokenFileName)
	if !strings.HasSuffix(storage.Path(), want) {
		t.Errorf("Path() = %q, want suffix %q", storage.Path(), want)
	}
}

func TestTokenStoragePath(t *testing.T) {
	path := "/custom/path/token.json"
	storage, err := NewTokenStorage(path)
	if err != nil {
		t.Fatalf("NewTokenStorage() error = %v", err)
	}

	if storage.Path() != path {
		t.Errorf("Path() = %q, want %q", storage.Path(), path)
	}
}
