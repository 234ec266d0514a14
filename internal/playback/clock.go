package playback

import (
	"sync"
	"time"
)

// clock animates playback position between polls. While running it
// emits an estimated position every interval, computed from the
// snapshot it was started with. It stops itself once the estimate
// would run past the track's duration; the next poll confirms whether
// the track actually ended.
//
// Restart supersedes any running timer before starting a new one, so
// two timers never animate at once. Each run carries a generation
// number; emissions from a superseded generation are suppressed even
// if the goroutine has not observed its stop signal yet.
type clock struct {
	interval time.Duration
	emit     func(snap Snapshot, estimated time.Duration)

	mu     sync.Mutex
	gen    uint64
	stop   chan struct{}
	active bool
}

func newClock(interval time.Duration, emit func(Snapshot, time.Duration)) *clock {
	return &clock{interval: interval, emit: emit}
}

// Restart stops the running timer, if any, and starts a new one
// estimating from snap.
func (c *clock) Restart(snap Snapshot) {
	c.mu.Lock()
	if c.stop != nil {
		close(c.stop)
	}
	c.gen++
	gen := c.gen
	stop := make(chan struct{})
	c.stop = stop
	c.active = true
	c.mu.Unlock()

	go c.run(gen, snap, stop)
}

// Stop halts the running timer. Safe to call when none is running.
// The generation is bumped so a tick racing with Stop cannot emit
// after Stop returns.
func (c *clock) Stop() {
	c.mu.Lock()
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	c.gen++
	c.active = false
	c.mu.Unlock()
}

// Running reports whether a timer is currently animating.
func (c *clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

func (c *clock) run(gen uint64, snap Snapshot, stop <-chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			stale := gen != c.gen
			c.mu.Unlock()
			if stale {
				return
			}
			if snap.Finished(now) {
				c.expire(gen)
				return
			}
			c.emit(snap, snap.EstimatedAt(now))
		}
	}
}

// expire marks the clock stopped after the track presumably played
// through, unless a newer generation has already taken over.
func (c *clock) expire(gen uint64) {
	c.mu.Lock()
	if gen == c.gen {
		c.stop = nil
		c.active = false
	}
	c.mu.Unlock()
}
