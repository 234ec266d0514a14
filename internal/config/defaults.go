package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Spotify: SpotifyConfig{
			RedirectURI: "http://127.0.0.1:8888/callback",
		},
		Sync: SyncConfig{
			PollIntervalMS:   2500,
			TickIntervalMS:   250,
			CommandSpacingMS: 500,
			NudgeDelayMS:     100,
		},
		Defaults: DefaultsConfig{
			Volume: 50,
		},
		Tail: TailConfig{
			Enabled:  false,
			Interval: 1000,
		},
		TUI: TUIConfig{
			Theme: "mocha",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Spotify
	if c.Spotify.RedirectURI == "" {
		c.Spotify.RedirectURI = d.Spotify.RedirectURI
	}

	// Sync
	if c.Sync.PollIntervalMS == 0 {
		c.Sync.PollIntervalMS = d.Sync.PollIntervalMS
	}
	if c.Sync.TickIntervalMS == 0 {
		c.Sync.TickIntervalMS = d.Sync.TickIntervalMS
	}
	if c.Sync.CommandSpacingMS == 0 {
		c.Sync.CommandSpacingMS = d.Sync.CommandSpacingMS
	}
	if c.Sync.NudgeDelayMS == 0 {
		c.Sync.NudgeDelayMS = d.Sync.NudgeDelayMS
	}

	// Defaults
	if c.Defaults.Volume == 0 {
		c.Defaults.Volume = d.Defaults.Volume
	}

	// Tail
	if c.Tail.Interval == 0 {
		c.Tail.Interval = d.Tail.Interval
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
