package playback

import (
	"context"

	"github.com/soverby/tempo/internal/core"
)

// Remote is the slice of the streaming service API the engine talks
// to. Implemented by the Spotify adapter in internal/spotify/player.
type Remote interface {
	// Snapshot fetches the current playback state. A nil snapshot with
	// a nil error means nothing is loaded on the account.
	Snapshot(ctx context.Context) (*Snapshot, error)
	// Devices lists the account's available playback devices.
	Devices(ctx context.Context) ([]core.Device, error)
	// PlayTrack starts the given track URI on the given device.
	PlayTrack(ctx context.Context, deviceID, uri string) error
	// Resume resumes playback on the active device.
	Resume(ctx context.Context) error
	// Pause pauses playback on the active device.
	Pause(ctx context.Context) error
}

// BPMSource looks up locally stored tempo analysis for a track. The
// session uses it to annotate now-playing updates; a miss just means
// no BPM is shown. Implemented by the library store.
type BPMSource interface {
	BPM(trackID string) (float64, bool)
}
