package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can decide how to react without
// inspecting error strings.
type Kind int

const (
	// KindUnknown is the default classification.
	KindUnknown Kind = iota
	// KindTransient covers network hiccups, timeouts, and 5xx responses.
	// Safe to retry; pollers report these at most as debug noise.
	KindTransient
	// KindAuth covers missing, expired, or rejected credentials.
	KindAuth
	// KindNoDevice means no playback device is available to receive a command.
	KindNoDevice
	// KindThrottled means a command was rejected locally because an
	// identical command is pending or ran too recently.
	KindThrottled
	// KindInput covers invalid user input: bad URIs, unknown devices,
	// out-of-range values.
	KindInput
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindAuth:
		return "auth"
	case KindNoDevice:
		return "no_device"
	case KindThrottled:
		return "throttled"
	case KindInput:
		return "input"
	default:
		return "unknown"
	}
}

// Sentinel errors for common failure scenarios.
var (
	ErrNotAuthenticated = E(KindAuth, "not authenticated")
	ErrTokenExpired     = E(KindAuth, "token expired")
	ErrNoActiveDevice   = E(KindNoDevice, "no active device")
	ErrDeviceNotFound   = E(KindInput, "device not found")
	ErrTrackNotFound    = E(KindInput, "track not found")
	ErrCommandPending   = E(KindThrottled, "command already in flight")
	ErrTooSoon          = E(KindThrottled, "command issued too soon after the last one")
	ErrRateLimited      = E(KindThrottled, "rate limited by server")
	ErrPremiumRequired  = E(KindInput, "spotify premium required")
	ErrInvalidConfig    = E(KindInput, "invalid configuration")
)

// Error is a classified error, optionally wrapping a cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s", e.Msg, e.Err.Error())
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E constructs a classified error from a message.
func E(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap classifies an existing error. A nil cause returns nil.
func Wrap(kind Kind, msg string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf reports the classification of err, walking the wrap chain.
// Unclassified errors report KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Silent reports whether err should be suppressed rather than surfaced:
// transient failures, auth failures during background work, and local
// throttle rejections. Callers in interactive paths may still choose to
// display auth errors.
func Silent(err error) bool {
	switch KindOf(err) {
	case KindTransient, KindAuth, KindThrottled:
		return true
	}
	return false
}

// Suggestion returns a recovery hint for the given error, or "".
func Suggestion(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrDeviceNotFound) {
		return "Run 'tempo devices' to see available devices"
	}
	if errors.Is(err, ErrPremiumRequired) {
		return "This feature requires Spotify Premium"
	}
	switch KindOf(err) {
	case KindAuth:
		return "Run 'tempo auth login' to authenticate with Spotify"
	case KindNoDevice:
		return "Open Spotify on a device and start playing, or use --device to specify one"
	case KindThrottled:
		return "Too many requests. Wait a moment and try again"
	case KindTransient:
		return "Check your internet connection and try again"
	}
	return ""
}

// Format returns a formatted error message with a suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}
	if s := Suggestion(err); s != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), s)
	}
	return fmt.Sprintf("Error: %s", err.Error())
}
