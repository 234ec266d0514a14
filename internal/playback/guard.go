package playback

import (
	"sync"
	"time"

	tempoerrors "github.com/soverby/tempo/internal/errors"
)

// guard serializes one class of command. A command class admits at
// most one in-flight invocation, and a successful invocation starts a
// quiet period before the next one is admitted. Failed invocations do
// not start a quiet period, so a retry after an error is never
// throttled.
type guard struct {
	mu      sync.Mutex
	spacing time.Duration

	pending  bool
	lastDone time.Time
}

func newGuard(spacing time.Duration) *guard {
	return &guard{spacing: spacing}
}

// acquire admits a new invocation. It returns ErrCommandPending while
// a previous invocation is still in flight and ErrTooSoon inside the
// quiet period after a success. The caller must release on every exit
// path once acquire succeeds.
func (g *guard) acquire() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending {
		return tempoerrors.ErrCommandPending
	}
	if !g.lastDone.IsZero() && time.Since(g.lastDone) < g.spacing {
		return tempoerrors.ErrTooSoon
	}
	g.pending = true
	return nil
}

// markDone records a successful completion, starting the quiet period.
func (g *guard) markDone() {
	g.mu.Lock()
	g.lastDone = time.Now()
	g.mu.Unlock()
}

// release clears the in-flight flag.
func (g *guard) release() {
	g.mu.Lock()
	g.pending = false
	g.mu.Unlock()
}
