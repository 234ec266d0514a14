package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Spotify.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("spotify: %w", err))
	}
	if err := c.Sync.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("sync: %w", err))
	}
	if err := c.Defaults.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("defaults: %w", err))
	}
	if err := c.Tail.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tail: %w", err))
	}
	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks SpotifyConfig for errors.
func (c *SpotifyConfig) Validate() error {
	if c.RedirectURI != "" {
		if _, err := url.Parse(c.RedirectURI); err != nil {
			return fmt.Errorf("invalid redirect_uri: %w", err)
		}
	}
	return nil
}

// Validate checks SyncConfig for errors.
func (c *SyncConfig) Validate() error {
	if c.PollIntervalMS < 0 {
		return errors.New("poll_interval_ms must be non-negative")
	}
	if c.TickIntervalMS < 0 {
		return errors.New("tick_interval_ms must be non-negative")
	}
	if c.CommandSpacingMS < 0 {
		return errors.New("command_spacing_ms must be non-negative")
	}
	if c.NudgeDelayMS < 0 {
		return errors.New("nudge_delay_ms must be non-negative")
	}
	if c.TickIntervalMS > 0 && c.PollIntervalMS > 0 && c.TickIntervalMS > c.PollIntervalMS {
		return errors.New("tick_interval_ms must not exceed poll_interval_ms")
	}
	return nil
}

// Validate checks DefaultsConfig for errors.
func (c *DefaultsConfig) Validate() error {
	if c.Volume < 0 || c.Volume > 100 {
		return errors.New("volume must be between 0 and 100")
	}
	return nil
}

// Validate checks TailConfig for errors.
func (c *TailConfig) Validate() error {
	if c.Interval < 0 {
		return errors.New("interval must be non-negative")
	}
	return nil
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	switch c.Theme {
	case "", "mocha", "macchiato", "frappe", "latte":
		// valid
	default:
		return fmt.Errorf("invalid theme: %s (must be mocha, macchiato, frappe, or latte)", c.Theme)
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}
