package player

import (
	"context"
	"time"

	"github.com/soverby/tempo/internal/core"
	"github.com/soverby/tempo/internal/playback"
	"github.com/soverby/tempo/internal/spotify/client"
)

// Remote adapts the Spotify client to the playback engine's Remote
// interface. It is a separate type from Player because the engine
// addresses devices per command, while core.Player targets one
// preconfigured device.
type Remote struct {
	client *client.Client
}

// NewRemote creates a playback remote backed by the given client.
func NewRemote(c *client.Client) *Remote {
	return &Remote{client: c}
}

// Snapshot fetches the current playback state and stamps it with the
// local clock. A nil snapshot with a nil error means nothing is loaded
// on the account (Spotify answers 204).
func (r *Remote) Snapshot(ctx context.Context) (*playback.Snapshot, error) {
	state, err := r.client.GetPlaybackState(ctx)
	if err != nil {
		return nil, err
	}
	return snapshotFromState(state, time.Now()), nil
}

// Devices lists the account's available playback devices.
func (r *Remote) Devices(ctx context.Context) ([]core.Device, error) {
	devices, err := r.client.GetDevices(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.Device, len(devices))
	for i, d := range devices {
		out[i] = *convertDevice(&d)
	}
	return out, nil
}

// PlayTrack starts the given track URI on the given device.
func (r *Remote) PlayTrack(ctx context.Context, deviceID, uri string) error {
	return r.client.Play(ctx, deviceID, &client.PlayOptions{URIs: []string{uri}})
}

// Resume resumes playback on the active device.
func (r *Remote) Resume(ctx context.Context) error {
	return r.client.Play(ctx, "", nil)
}

// Pause pauses playback on the active device.
func (r *Remote) Pause(ctx context.Context) error {
	return r.client.Pause(ctx, "")
}

// snapshotFromState converts a wire playback state into an engine
// snapshot. Episodes and ads carry no item, so they read as idle, the
// same as an empty response.
func snapshotFromState(state *client.PlaybackState, now time.Time) *playback.Snapshot {
	if state == nil || state.Item == nil {
		return nil
	}
	return &playback.Snapshot{
		Track:     convertTrack(state.Item),
		IsPlaying: state.IsPlaying,
		Position:  time.Duration(state.ProgressMS) * time.Millisecond,
		Duration:  time.Duration(state.Item.DurationMS) * time.Millisecond,
		SampledAt: now,
	}
}

// Ensure Remote implements playback.Remote.
var _ playback.Remote = (*Remote)(nil)
