package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Spotify  SpotifyConfig  `toml:"spotify"`
	Sync     SyncConfig     `toml:"sync"`
	Defaults DefaultsConfig `toml:"defaults"`
	Library  LibraryConfig  `toml:"library"`
	Tail     TailConfig     `toml:"tail"`
	TUI      TUIConfig      `toml:"tui"`
	Log      LogConfig      `toml:"log"`
}

// SpotifyConfig holds Spotify API settings.
type SpotifyConfig struct {
	ClientID    string `toml:"client_id"`
	RedirectURI string `toml:"redirect_uri"`
}

// SyncConfig holds the timing knobs for remote-state synchronization
// and command dispatch. All values are in milliseconds.
type SyncConfig struct {
	PollIntervalMS   int `toml:"poll_interval_ms"`
	TickIntervalMS   int `toml:"tick_interval_ms"`
	CommandSpacingMS int `toml:"command_spacing_ms"`
	NudgeDelayMS     int `toml:"nudge_delay_ms"`
}

// PollInterval returns the remote poll cadence.
func (c SyncConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// TickInterval returns the position-estimation cadence.
func (c SyncConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

// CommandSpacing returns the minimum gap between commands of one class.
func (c SyncConfig) CommandSpacing() time.Duration {
	return time.Duration(c.CommandSpacingMS) * time.Millisecond
}

// NudgeDelay returns how long after a successful command the
// supplementary poll fires.
func (c SyncConfig) NudgeDelay() time.Duration {
	return time.Duration(c.NudgeDelayMS) * time.Millisecond
}

// DefaultsConfig holds default playback settings.
type DefaultsConfig struct {
	Volume int    `toml:"volume"`
	Device string `toml:"device"`
}

// LibraryConfig holds settings for the local track library.
type LibraryConfig struct {
	Path string `toml:"path"`
}

// TailConfig holds settings for tail/follow mode.
type TailConfig struct {
	Enabled  bool `toml:"enabled"`
	Interval int  `toml:"interval"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}
