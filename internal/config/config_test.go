package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultTimings(t *testing.T) {
	cfg := Default()

	if got := cfg.Sync.PollInterval(); got != 2500*time.Millisecond {
		t.Errorf("PollInterval() = %v, want 2.5s", got)
	}
	if got := cfg.Sync.TickInterval(); got != 250*time.Millisecond {
		t.Errorf("TickInterval() = %v, want 250ms", got)
	}
	if got := cfg.Sync.CommandSpacing(); got != 500*time.Millisecond {
		t.Errorf("CommandSpacing() = %v, want 500ms", got)
	}
	if got := cfg.Sync.NudgeDelay(); got != 100*time.Millisecond {
		t.Errorf("NudgeDelay() = %v, want 100ms", got)
	}
}

func TestApplyDefaultsFillsZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Sync.PollIntervalMS != 2500 {
		t.Errorf("PollIntervalMS = %d, want 2500", cfg.Sync.PollIntervalMS)
	}
	if cfg.Spotify.RedirectURI == "" {
		t.Error("RedirectURI should be defaulted")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestApplyDefaultsPreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Sync: SyncConfig{PollIntervalMS: 5000},
		Log:  LogConfig{Level: "debug"},
	}
	cfg.ApplyDefaults()

	if cfg.Sync.PollIntervalMS != 5000 {
		t.Errorf("PollIntervalMS = %d, want 5000", cfg.Sync.PollIntervalMS)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[spotify]
client_id = "abc123"

[sync]
poll_interval_ms = 1000
tick_interval_ms = 100

[library]
path = "/tmp/tracks.json"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Spotify.ClientID != "abc123" {
		t.Errorf("ClientID = %q, want abc123", cfg.Spotify.ClientID)
	}
	if cfg.Sync.PollIntervalMS != 1000 {
		t.Errorf("PollIntervalMS = %d, want 1000", cfg.Sync.PollIntervalMS)
	}
	if cfg.Library.Path != "/tmp/tracks.json" {
		t.Errorf("Library.Path = %q", cfg.Library.Path)
	}
	// Untouched sections still get defaults.
	if cfg.Sync.CommandSpacingMS != 500 {
		t.Errorf("CommandSpacingMS = %d, want 500", cfg.Sync.CommandSpacingMS)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TEMPO_SPOTIFY_CLIENT_ID", "env-client")
	t.Setenv("TEMPO_SYNC_POLL_INTERVAL_MS", "750")
	t.Setenv("TEMPO_LOG_LEVEL", "warn")

	cfg := &Config{}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	if cfg.Spotify.ClientID != "env-client" {
		t.Errorf("ClientID = %q, want env-client", cfg.Spotify.ClientID)
	}
	if cfg.Sync.PollIntervalMS != 750 {
		t.Errorf("PollIntervalMS = %d, want 750", cfg.Sync.PollIntervalMS)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"negative poll interval", func(c *Config) { c.Sync.PollIntervalMS = -1 }, true},
		{"tick slower than poll", func(c *Config) {
			c.Sync.TickIntervalMS = 5000
			c.Sync.PollIntervalMS = 2500
		}, true},
		{"volume out of range", func(c *Config) { c.Defaults.Volume = 150 }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"bad theme", func(c *Config) { c.TUI.Theme = "solarized" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
