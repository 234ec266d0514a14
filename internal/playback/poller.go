package playback

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// PollResult is one poller observation: a fresh snapshot, nil when
// nothing is loaded remotely, or the error that prevented fetching.
type PollResult struct {
	Snap *Snapshot
	Err  error
}

// Poller periodically fetches remote playback state and delivers each
// observation on a channel. It polls once immediately on start so the
// first paint does not wait out a full interval, then on a fixed
// ticker. Nudge schedules one supplementary poll, used right after a
// command submission to pick up its effect early.
type Poller struct {
	remote   Remote
	interval time.Duration
	logger   zerolog.Logger
	nudge    chan struct{}
}

// NewPoller builds a poller that fetches from remote every interval.
func NewPoller(remote Remote, interval time.Duration, logger zerolog.Logger) *Poller {
	return &Poller{
		remote:   remote,
		interval: interval,
		logger:   logger,
		nudge:    make(chan struct{}, 1),
	}
}

// Nudge requests a supplementary poll. Non-blocking; nudges coalesce
// while one is already queued.
func (p *Poller) Nudge() {
	select {
	case p.nudge <- struct{}{}:
	default:
	}
}

// Run polls until ctx is cancelled, sending every observation to
// results. Sends never block; an observation is dropped if results is
// full.
func (p *Poller) Run(ctx context.Context, results chan<- PollResult) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx, results)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx, results)
		case <-p.nudge:
			p.poll(ctx, results)
		}
	}
}

func (p *Poller) poll(ctx context.Context, results chan<- PollResult) {
	snap, err := p.remote.Snapshot(ctx)
	if err != nil {
		p.logger.Debug().Err(err).Msg("playback poll failed")
	}
	select {
	case results <- PollResult{Snap: snap, Err: err}:
	default:
		p.logger.Debug().Msg("poll results channel full, dropping observation")
	}
}
