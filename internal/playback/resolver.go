package playback

import (
	"context"

	"github.com/rs/zerolog"

	tempoerrors "github.com/soverby/tempo/internal/errors"
)

// Resolver picks the output device for commands that need one.
//
// Preference order: a connected in-process session's device, then the
// remote device flagged active, then the first listed device. An empty
// device list resolves to ErrNoActiveDevice, and discovery failures
// resolve the same way rather than surfacing as hard errors.
type Resolver struct {
	remote Remote
	local  LocalSession
	logger zerolog.Logger
}

// NewResolver builds a resolver. local may be nil.
func NewResolver(remote Remote, local LocalSession, logger zerolog.Logger) *Resolver {
	return &Resolver{remote: remote, local: local, logger: logger}
}

// Resolve returns the device id commands should target.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	if r.local != nil && r.local.Connected() {
		if id := r.local.DeviceID(); id != "" {
			return id, nil
		}
	}

	devices, err := r.remote.Devices(ctx)
	if err != nil {
		r.logger.Debug().Err(err).Msg("device discovery failed")
		return "", tempoerrors.ErrNoActiveDevice
	}
	for _, d := range devices {
		if d.IsActive {
			return d.ID, nil
		}
	}
	if len(devices) > 0 {
		return devices[0].ID, nil
	}
	return "", tempoerrors.ErrNoActiveDevice
}
