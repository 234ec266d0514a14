package playback

import (
	"sync"
	"testing"
	"time"
)

// emitRecorder collects clock emissions for inspection.
type emitRecorder struct {
	mu    sync.Mutex
	snaps []Snapshot
	ests  []time.Duration
}

func (r *emitRecorder) emit(snap Snapshot, est time.Duration) {
	r.mu.Lock()
	r.snaps = append(r.snaps, snap)
	r.ests = append(r.ests, est)
	r.mu.Unlock()
}

func (r *emitRecorder) estimates() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.ests...)
}

func (r *emitRecorder) baselines() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]time.Duration, len(r.snaps))
	for i, s := range r.snaps {
		out[i] = s.Position
	}
	return out
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition never met")
}

func TestClockEmitsIncreasingEstimates(t *testing.T) {
	rec := &emitRecorder{}
	c := newClock(5*time.Millisecond, rec.emit)

	c.Restart(Snapshot{
		IsPlaying: true,
		Position:  10 * time.Second,
		Duration:  200 * time.Second,
		SampledAt: time.Now(),
	})
	defer c.Stop()

	waitFor(t, time.Second, func() bool { return len(rec.estimates()) >= 4 })

	ests := rec.estimates()
	for i := 1; i < len(ests); i++ {
		if ests[i] < ests[i-1] {
			t.Fatalf("estimates went backwards: %v", ests)
		}
	}
	if ests[0] < 10*time.Second {
		t.Errorf("first estimate %v below baseline", ests[0])
	}
}

func TestClockStopsAtTrackEnd(t *testing.T) {
	rec := &emitRecorder{}
	c := newClock(5*time.Millisecond, rec.emit)

	// 40ms of track left.
	c.Restart(Snapshot{
		IsPlaying: true,
		Position:  160 * time.Millisecond,
		Duration:  200 * time.Millisecond,
		SampledAt: time.Now(),
	})

	waitFor(t, time.Second, func() bool { return !c.Running() })

	before := len(rec.estimates())
	time.Sleep(30 * time.Millisecond)
	after := len(rec.estimates())
	if after != before {
		t.Errorf("clock kept emitting after the track ended: %d -> %d", before, after)
	}

	for _, est := range rec.estimates() {
		if est > 200*time.Millisecond {
			t.Errorf("estimate %v exceeds track duration", est)
		}
	}
}

func TestClockRestartSupersedes(t *testing.T) {
	rec := &emitRecorder{}
	c := newClock(5*time.Millisecond, rec.emit)

	c.Restart(Snapshot{
		IsPlaying: true,
		Position:  10 * time.Second,
		Duration:  200 * time.Second,
		SampledAt: time.Now(),
	})
	waitFor(t, time.Second, func() bool { return len(rec.baselines()) >= 2 })

	c.Restart(Snapshot{
		IsPlaying: true,
		Position:  10500 * time.Millisecond,
		Duration:  200 * time.Second,
		SampledAt: time.Now(),
	})
	defer c.Stop()

	// Let any in-flight tick from the old run drain, then insist every
	// further emission derives from the new baseline.
	time.Sleep(15 * time.Millisecond)
	mark := len(rec.baselines())
	waitFor(t, time.Second, func() bool { return len(rec.baselines()) >= mark+3 })

	for _, b := range rec.baselines()[mark:] {
		if b != 10500*time.Millisecond {
			t.Fatalf("old baseline %v emitted after restart", b)
		}
	}
}

func TestClockStopHaltsEmissions(t *testing.T) {
	rec := &emitRecorder{}
	c := newClock(5*time.Millisecond, rec.emit)

	c.Restart(Snapshot{
		IsPlaying: true,
		Position:  time.Second,
		Duration:  200 * time.Second,
		SampledAt: time.Now(),
	})
	waitFor(t, time.Second, func() bool { return len(rec.estimates()) >= 1 })

	c.Stop()
	if c.Running() {
		t.Error("Running() = true after Stop")
	}

	// Let any in-flight tick drain, then expect silence.
	time.Sleep(15 * time.Millisecond)
	before := len(rec.estimates())
	time.Sleep(30 * time.Millisecond)
	if after := len(rec.estimates()); after != before {
		t.Errorf("clock emitted after Stop: %d -> %d", before, after)
	}
}

func TestClockStopWithoutStart(t *testing.T) {
	c := newClock(5*time.Millisecond, func(Snapshot, time.Duration) {})
	c.Stop()
	if c.Running() {
		t.Error("Running() = true, want false")
	}
}
