package core

import "time"

// Track represents a playable audio track.
type Track struct {
	ID       string        `json:"id"`
	URI      string        `json:"uri"`
	Title    string        `json:"title"`
	Artist   string        `json:"artist"`
	Artists  []string      `json:"artists"`
	Album    string        `json:"album"`
	Duration time.Duration `json:"duration"`
	// BPM is the track tempo in beats per minute, or 0 when unknown.
	BPM float64 `json:"bpm,omitempty"`
}

// HasBPM returns true if a tempo has been resolved for the track.
func (t *Track) HasBPM() bool {
	return t != nil && t.BPM > 0
}
