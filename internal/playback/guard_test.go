package playback

import (
	"errors"
	"testing"
	"time"

	tempoerrors "github.com/soverby/tempo/internal/errors"
)

func TestGuardRejectsWhilePending(t *testing.T) {
	g := newGuard(50 * time.Millisecond)

	if err := g.acquire(); err != nil {
		t.Fatalf("first acquire() error = %v", err)
	}
	if err := g.acquire(); !errors.Is(err, tempoerrors.ErrCommandPending) {
		t.Fatalf("acquire() while pending error = %v, want ErrCommandPending", err)
	}
	g.release()

	// Released without markDone: admitted again immediately.
	if err := g.acquire(); err != nil {
		t.Fatalf("acquire() after release error = %v", err)
	}
	g.release()
}

func TestGuardQuietPeriod(t *testing.T) {
	g := newGuard(50 * time.Millisecond)

	if err := g.acquire(); err != nil {
		t.Fatalf("acquire() error = %v", err)
	}
	g.markDone()
	g.release()

	if err := g.acquire(); !errors.Is(err, tempoerrors.ErrTooSoon) {
		t.Fatalf("acquire() inside quiet period error = %v, want ErrTooSoon", err)
	}

	time.Sleep(60 * time.Millisecond)
	if err := g.acquire(); err != nil {
		t.Fatalf("acquire() after quiet period error = %v", err)
	}
	g.release()
}

func TestGuardFailureStartsNoQuietPeriod(t *testing.T) {
	g := newGuard(time.Hour)

	if err := g.acquire(); err != nil {
		t.Fatalf("acquire() error = %v", err)
	}
	g.release()

	if err := g.acquire(); err != nil {
		t.Fatalf("acquire() after failed command error = %v", err)
	}
	g.release()
}

func TestGuardErrorsAreThrottleKind(t *testing.T) {
	g := newGuard(time.Hour)

	if err := g.acquire(); err != nil {
		t.Fatalf("acquire() error = %v", err)
	}
	err := g.acquire()
	if got := tempoerrors.KindOf(err); got != tempoerrors.KindThrottled {
		t.Errorf("KindOf() = %v, want KindThrottled", got)
	}
	if !tempoerrors.Silent(err) {
		t.Error("throttle rejection should be silent")
	}
	g.release()

	g.markDone()
	err = g.acquire()
	if got := tempoerrors.KindOf(err); got != tempoerrors.KindThrottled {
		t.Errorf("KindOf() = %v, want KindThrottled", got)
	}
}
