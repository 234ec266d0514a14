package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"classified error", E(KindAuth, "bad token"), KindAuth},
		{"wrapped classified error", fmt.Errorf("poll: %w", ErrNoActiveDevice), KindNoDevice},
		{"double wrap keeps outer kind", Wrap(KindTransient, "request", ErrNotAuthenticated), KindTransient},
		{"plain error", errors.New("boom"), KindUnknown},
		{"nil", nil, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSilent(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"transient is silent", E(KindTransient, "timeout"), true},
		{"auth is silent", ErrTokenExpired, true},
		{"throttled is silent", ErrCommandPending, true},
		{"no device is loud", ErrNoActiveDevice, false},
		{"input is loud", ErrTrackNotFound, false},
		{"unknown is loud", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Silent(tt.err); got != tt.want {
				t.Errorf("Silent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(KindTransient, "request", nil); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestErrorMessage(t *testing.T) {
	err := Wrap(KindTransient, "fetch state", errors.New("connection refused"))
	want := "fetch state: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestSentinelsMatchWithIs(t *testing.T) {
	wrapped := fmt.Errorf("dispatch: %w", ErrCommandPending)
	if !errors.Is(wrapped, ErrCommandPending) {
		t.Error("wrapped sentinel should match with errors.Is")
	}
	if KindOf(wrapped) != KindThrottled {
		t.Errorf("KindOf(wrapped sentinel) = %v, want KindThrottled", KindOf(wrapped))
	}
}

func TestSuggestion(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantSub string
	}{
		{"auth", ErrNotAuthenticated, "tempo auth login"},
		{"no device", ErrNoActiveDevice, "--device"},
		{"device not found", ErrDeviceNotFound, "tempo devices"},
		{"unknown has none", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggestion(tt.err)
			if tt.wantSub == "" {
				if got != "" {
					t.Errorf("Suggestion() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.wantSub) {
				t.Errorf("Suggestion() = %q, want substring %q", got, tt.wantSub)
			}
		})
	}
}
