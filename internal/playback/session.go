package playback

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/soverby/tempo/internal/core"
	tempoerrors "github.com/soverby/tempo/internal/errors"
)

// Update is the session's view of playback, pushed to subscribers.
// Estimated marks clock interpolation between polls; everything else
// is authoritative (a poll result, a command's optimistic flip, or a
// rollback). Err is set when the update was forced by a failed
// command.
type Update struct {
	Track     *core.Track
	IsPlaying bool
	Position  time.Duration
	Estimated bool
	Err       error
}

// Config holds session timing. Zero values fall back to the defaults
// below.
type Config struct {
	PollInterval   time.Duration
	TickInterval   time.Duration
	CommandSpacing time.Duration
	NudgeDelay     time.Duration
}

const (
	defaultPollInterval   = 2500 * time.Millisecond
	defaultTickInterval   = 250 * time.Millisecond
	defaultCommandSpacing = 500 * time.Millisecond
	defaultNudgeDelay     = 100 * time.Millisecond
)

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.TickInterval <= 0 {
		c.TickInterval = defaultTickInterval
	}
	if c.CommandSpacing <= 0 {
		c.CommandSpacing = defaultCommandSpacing
	}
	if c.NudgeDelay <= 0 {
		c.NudgeDelay = defaultNudgeDelay
	}
	return c
}

// Session reconciles UI intent with remote playback state. It owns the
// poller and the interpolation clock, tracks a local belief of what is
// playing, and dispatches guarded play and toggle commands with
// optimistic updates.
//
// The remote snapshot is the source of truth: each successful poll
// replaces local belief wholesale. Between polls the clock animates
// position and commands flip belief optimistically, with rollback if
// the command fails.
type Session struct {
	remote Remote
	local  LocalSession
	bpm    BPMSource
	cfg    Config
	logger zerolog.Logger

	poller   *Poller
	clock    *clock
	resolver *Resolver

	playGuard   *guard
	toggleGuard *guard

	updates chan Update

	mu      sync.Mutex
	snap    *Snapshot
	track   *core.Track
	playing bool
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewSession builds a session around remote. Optional collaborators
// are attached with the Set methods before Start.
func NewSession(remote Remote, cfg Config, logger zerolog.Logger) *Session {
	cfg = cfg.withDefaults()
	s := &Session{
		remote:      remote,
		cfg:         cfg,
		logger:      logger,
		playGuard:   newGuard(cfg.CommandSpacing),
		toggleGuard: newGuard(cfg.CommandSpacing),
		updates:     make(chan Update, 16),
	}
	s.clock = newClock(cfg.TickInterval, s.pushEstimate)
	s.poller = NewPoller(remote, cfg.PollInterval, logger)
	s.resolver = NewResolver(remote, nil, logger)
	return s
}

// SetLocalSession attaches an in-process playback session. Must be
// called before Start.
func (s *Session) SetLocalSession(local LocalSession) {
	s.local = local
	s.resolver = NewResolver(s.remote, local, s.logger)
}

// SetBPMSource attaches a tempo lookup used to annotate now-playing
// tracks. Must be called before Start.
func (s *Session) SetBPMSource(b BPMSource) {
	s.bpm = b
}

// Updates returns the channel playback updates are delivered on. Slow
// consumers lose intermediate frames rather than blocking the engine.
func (s *Session) Updates() <-chan Update {
	return s.updates
}

// Start launches the poller and the session's event loop. The first
// poll fires immediately.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return tempoerrors.E(tempoerrors.KindInput, "session already started")
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	s.mu.Unlock()

	results := make(chan PollResult, 4)
	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.poller.Run(ctx, results)
	}()
	go func() {
		defer s.wg.Done()
		s.run(ctx, results)
	}()

	s.logger.Debug().
		Dur("poll_interval", s.cfg.PollInterval).
		Dur("tick_interval", s.cfg.TickInterval).
		Msg("playback session started")
	return nil
}

// Stop halts the poller, clock, and event loop. No further updates
// arrive after Stop returns. Safe to call more than once.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	cancel()
	s.clock.Stop()
	s.wg.Wait()
	s.logger.Debug().Msg("playback session stopped")
}

// Nudge requests a supplementary poll outside the normal cadence.
func (s *Session) Nudge() {
	s.poller.Nudge()
}

func (s *Session) run(ctx context.Context, results <-chan PollResult) {
	var events <-chan SessionEvent
	if s.local != nil {
		events = s.local.Events()
	}
	for {
		select {
		case <-ctx.Done():
			return
		case r := <-results:
			s.applyPoll(r)
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			s.applyEvent(ev)
		}
	}
}

// applyPoll makes a poller observation the new local truth.
func (s *Session) applyPoll(r PollResult) {
	if r.Err != nil {
		// Keep the stale view; the next tick self-heals.
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !r.Snap.HasTrack() {
		// Nothing loaded remotely. Halt animation but keep the last
		// track on screen.
		s.playing = false
		if s.snap != nil {
			frozen := s.snap.Rebased(time.Now(), false)
			s.snap = &frozen
		}
		s.clock.Stop()
		s.sendLocked(s.updateLocked(false, nil))
		return
	}

	snap := *r.Snap
	s.annotate(snap.Track)
	s.snap = &snap
	s.track = snap.Track
	s.playing = snap.IsPlaying
	if snap.IsPlaying {
		s.clock.Restart(snap)
	} else {
		s.clock.Stop()
	}
	s.sendLocked(s.updateLocked(false, nil))
}

// applyEvent folds an in-process session event into local belief.
// Events carry no position baseline, so interpolation is rebuilt from
// the snapshot the session already holds.
func (s *Session) applyEvent(ev SessionEvent) {
	switch ev.Type {
	case SessionReady:
		s.logger.Debug().Str("device", ev.DeviceID).Msg("local playback session ready")
	case SessionGone:
		s.logger.Debug().Msg("local playback session disconnected")
	case SessionStateChanged:
		s.mu.Lock()
		s.applyBeliefLocked(!ev.Paused)
		s.sendLocked(s.updateLocked(false, nil))
		s.mu.Unlock()
	}
}

// PlayTrack starts the given track URI on the resolved device. The
// call is guarded: a second PlayTrack while one is in flight, or
// inside the quiet period after a successful one, returns a throttle
// error the UI treats as a no-op.
func (s *Session) PlayTrack(ctx context.Context, uri string) error {
	if err := s.playGuard.acquire(); err != nil {
		return err
	}
	defer s.playGuard.release()

	deviceID, err := s.resolver.Resolve(ctx)
	if err != nil {
		return err
	}
	if err := s.remote.PlayTrack(ctx, deviceID, uri); err != nil {
		return tempoerrors.Wrap(tempoerrors.KindOf(err), "failed to start playback", err)
	}

	s.playGuard.markDone()
	s.logger.Debug().Str("uri", uri).Str("device", deviceID).Msg("track command accepted")
	s.scheduleNudge()
	return nil
}

// TogglePlayPause flips play/pause. The flip is optimistic: local
// belief and the clock change before the network call, and are rolled
// back if it fails. A connected local session handles the toggle
// without an HTTP round trip.
func (s *Session) TogglePlayPause(ctx context.Context) error {
	if err := s.toggleGuard.acquire(); err != nil {
		return err
	}
	defer s.toggleGuard.release()

	// Read intent and apply it locally before the suspension point.
	s.mu.Lock()
	shouldPlay := !s.playing
	s.applyBeliefLocked(shouldPlay)
	s.sendLocked(s.updateLocked(false, nil))
	s.mu.Unlock()

	if err := s.dispatchToggle(ctx, shouldPlay); err != nil {
		werr := tempoerrors.Wrap(tempoerrors.KindOf(err), "failed to toggle playback", err)
		s.mu.Lock()
		s.applyBeliefLocked(!shouldPlay)
		s.sendLocked(s.updateLocked(false, werr))
		s.mu.Unlock()
		return werr
	}

	s.toggleGuard.markDone()
	return nil
}

func (s *Session) dispatchToggle(ctx context.Context, shouldPlay bool) error {
	if s.local != nil && s.local.Connected() {
		return s.local.TogglePlay(ctx)
	}
	if shouldPlay {
		return s.remote.Resume(ctx)
	}
	return s.remote.Pause(ctx)
}

// applyBeliefLocked flips local play state and the clock to match.
// The snapshot is rebased so a resume interpolates from the frozen
// position and a pause freezes at the current estimate.
func (s *Session) applyBeliefLocked(playing bool) {
	s.playing = playing
	if !s.snap.HasTrack() {
		s.clock.Stop()
		return
	}
	snap := s.snap.Rebased(time.Now(), playing)
	s.snap = &snap
	if playing {
		s.clock.Restart(snap)
	} else {
		s.clock.Stop()
	}
}

// pushEstimate delivers a clock tick. The clock passes along the
// snapshot it estimated from; ticks from a superseded baseline are
// dropped.
func (s *Session) pushEstimate(snap Snapshot, estimated time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil || !s.snap.SampledAt.Equal(snap.SampledAt) {
		return
	}
	s.sendLocked(Update{Track: s.track, IsPlaying: s.playing, Position: estimated, Estimated: true})
}

// annotate fills in the track's BPM from the library mirror.
func (s *Session) annotate(t *core.Track) {
	if s.bpm == nil || t == nil {
		return
	}
	if bpm, ok := s.bpm.BPM(t.ID); ok {
		t.BPM = bpm
	}
}

// updateLocked builds an Update from current belief. Callers hold mu.
func (s *Session) updateLocked(estimated bool, err error) Update {
	u := Update{Track: s.track, IsPlaying: s.playing, Estimated: estimated, Err: err}
	if s.snap != nil {
		u.Position = s.snap.EstimatedAt(time.Now())
	}
	return u
}

// scheduleNudge arms the supplementary poll that confirms a command's
// effect shortly after submission.
func (s *Session) scheduleNudge() {
	time.AfterFunc(s.cfg.NudgeDelay, s.poller.Nudge)
}

// sendLocked delivers an update without blocking. Callers hold mu, so
// updates enter the channel in state-change order.
func (s *Session) sendLocked(u Update) {
	select {
	case s.updates <- u:
	default:
		s.logger.Debug().Msg("updates channel full, dropping frame")
	}
}
