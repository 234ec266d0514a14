package playback

import "context"

// SessionEventType classifies events pushed by an in-process playback
// session.
type SessionEventType int

const (
	// SessionReady fires when the local session has registered a
	// playback device and can accept commands. DeviceID is set.
	SessionReady SessionEventType = iota
	// SessionGone fires when the local session disconnects.
	SessionGone
	// SessionStateChanged fires when the local session observes a
	// play/pause flip or track change. TrackID and Paused are set.
	SessionStateChanged
)

// SessionEvent is a push notification from an in-process playback
// session. Events are a supplementary signal: they update local belief
// quickly, but the poller remains the source of truth.
type SessionEvent struct {
	Type     SessionEventType
	DeviceID string
	TrackID  string
	Paused   bool
}

// LocalSession is an in-process playback session, such as an embedded
// player registered as its own device. The engine works fine without
// one; when present, its device is preferred as a command target and
// play/pause can be toggled without a round trip.
type LocalSession interface {
	// Connected reports whether the session currently has a usable
	// playback device.
	Connected() bool
	// DeviceID returns the session's device id, or "" before ready.
	DeviceID() string
	// TogglePlay flips play/pause directly on the local device.
	TogglePlay(ctx context.Context) error
	// Events returns the session's event stream. The channel is closed
	// when the session shuts down.
	Events() <-chan SessionEvent
}
