package playback

import (
	"time"

	"github.com/soverby/tempo/internal/core"
)

// Snapshot is a point-in-time capture of remote playback state. It is
// the baseline for position estimation: Position was accurate at
// SampledAt, and estimates interpolate forward from there using the
// local clock. A snapshot is replaced wholesale by each poll, never
// patched field by field.
type Snapshot struct {
	Track     *core.Track
	IsPlaying bool
	Position  time.Duration
	Duration  time.Duration
	SampledAt time.Time
}

// HasTrack reports whether the snapshot has a track loaded.
func (s *Snapshot) HasTrack() bool {
	return s != nil && s.Track != nil
}

// TrackID returns the loaded track's ID, or "" when nothing is loaded.
func (s *Snapshot) TrackID() string {
	if !s.HasTrack() {
		return ""
	}
	return s.Track.ID
}

// EstimatedAt returns the estimated playback position at the given
// time. Paused snapshots do not advance. The result is clamped to
// [0, Duration], so an estimate never reports a position past the end
// of the track.
func (s *Snapshot) EstimatedAt(now time.Time) time.Duration {
	if s == nil {
		return 0
	}
	pos := s.Position
	if s.IsPlaying {
		pos += now.Sub(s.SampledAt)
	}
	if pos < 0 {
		pos = 0
	}
	if s.Duration > 0 && pos > s.Duration {
		pos = s.Duration
	}
	return pos
}

// Finished reports whether the track has presumably played through:
// the unclamped estimate has run past Duration. Only a playing
// snapshot can finish. The next poll confirms what actually happened.
func (s *Snapshot) Finished(now time.Time) bool {
	if s == nil || !s.IsPlaying || s.Duration <= 0 {
		return false
	}
	return s.Position+now.Sub(s.SampledAt) > s.Duration
}

// Rebased returns a copy with Position advanced to the estimate at
// now, SampledAt reset to now, and IsPlaying set to playing. Used when
// a local command changes play state between polls: pausing freezes
// the position at the current estimate, resuming starts interpolation
// from the frozen spot.
func (s *Snapshot) Rebased(now time.Time, playing bool) Snapshot {
	c := *s
	c.Position = s.EstimatedAt(now)
	c.SampledAt = now
	c.IsPlaying = playing
	return c
}
