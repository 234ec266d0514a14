package playback

import (
	"context"
	"testing"
	"time"

	tempoerrors "github.com/soverby/tempo/internal/errors"
	"github.com/soverby/tempo/internal/logging"
)

func runPoller(t *testing.T, p *Poller) <-chan PollResult {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	results := make(chan PollResult, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx, results)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return results
}

func TestPollerPollsImmediately(t *testing.T) {
	remote := &fakeRemote{snap: playingSnapshot("abc", 0)}
	p := NewPoller(remote, time.Hour, logging.Disabled())
	results := runPoller(t, p)

	select {
	case r := <-results:
		if r.Err != nil {
			t.Fatalf("first poll Err = %v", r.Err)
		}
		if r.Snap.TrackID() != "abc" {
			t.Errorf("first poll track = %q, want abc", r.Snap.TrackID())
		}
	case <-time.After(time.Second):
		t.Fatal("no poll before the first interval elapsed")
	}
}

func TestPollerNudge(t *testing.T) {
	remote := &fakeRemote{snap: playingSnapshot("abc", 0)}
	p := NewPoller(remote, time.Hour, logging.Disabled())
	results := runPoller(t, p)

	<-results
	p.Nudge()

	select {
	case <-results:
	case <-time.After(time.Second):
		t.Fatal("nudge did not trigger a poll")
	}
}

func TestPollerTicks(t *testing.T) {
	remote := &fakeRemote{snap: playingSnapshot("abc", 0)}
	p := NewPoller(remote, 10*time.Millisecond, logging.Disabled())
	results := runPoller(t, p)

	for i := 0; i < 3; i++ {
		select {
		case <-results:
		case <-time.After(time.Second):
			t.Fatalf("poll %d never arrived", i)
		}
	}
}

func TestPollerDeliversFailures(t *testing.T) {
	remote := &fakeRemote{}
	remote.setSnapshotErr(tempoerrors.E(tempoerrors.KindTransient, "socket closed"))
	p := NewPoller(remote, time.Hour, logging.Disabled())
	results := runPoller(t, p)

	select {
	case r := <-results:
		if r.Err == nil {
			t.Fatal("PollResult.Err = nil, want fetch failure")
		}
		if r.Snap != nil {
			t.Errorf("PollResult.Snap = %+v, want nil", r.Snap)
		}
	case <-time.After(time.Second):
		t.Fatal("no result delivered")
	}
}

func TestPollerIdleResult(t *testing.T) {
	remote := &fakeRemote{}
	p := NewPoller(remote, time.Hour, logging.Disabled())
	results := runPoller(t, p)

	select {
	case r := <-results:
		if r.Err != nil {
			t.Fatalf("idle poll Err = %v", r.Err)
		}
		if r.Snap != nil {
			t.Errorf("idle poll Snap = %+v, want nil", r.Snap)
		}
	case <-time.After(time.Second):
		t.Fatal("no result delivered")
	}
}

func TestPollerNudgeNeverBlocks(t *testing.T) {
	remote := &fakeRemote{}
	p := NewPoller(remote, time.Hour, logging.Disabled())

	// Not running: queued nudges coalesce instead of blocking.
	for i := 0; i < 5; i++ {
		p.Nudge()
	}
}
