package library

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/soverby/tempo/internal/core"
	tempoerrors "github.com/soverby/tempo/internal/errors"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "library.json")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return s
}

func entry(id, title string) Entry {
	return Entry{
		ID:     id,
		URI:    "spotify:track:" + id,
		Title:  title,
		Artist: "Test Artist",
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	s := testStore(t)
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0 for fresh store", s.Len())
	}
}

func TestStoreAddAndGet(t *testing.T) {
	s := testStore(t)

	if err := s.Add(entry("abc", "One More Time")); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, ok := s.Get("abc")
	if !ok {
		t.Fatal("Get() ok = false after Add")
	}
	if got.Title != "One More Time" {
		t.Errorf("Title = %q, want One More Time", got.Title)
	}
	if got.AddedAt.IsZero() {
		t.Error("AddedAt not stamped")
	}
}

func TestStoreAddValidation(t *testing.T) {
	s := testStore(t)

	err := s.Add(Entry{Title: "No ID"})
	if err == nil {
		t.Fatal("Add() error = nil, want validation failure")
	}
	if tempoerrors.KindOf(err) != tempoerrors.KindInput {
		t.Errorf("KindOf() = %v, want KindInput", tempoerrors.KindOf(err))
	}
}

func TestStoreAddUpsertKeepsAddedAt(t *testing.T) {
	s := testStore(t)

	first := entry("abc", "One More Time")
	first.AddedAt = time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	if err := s.Add(first); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	update := entry("abc", "One More Time (Remaster)")
	update.BPM = 123
	if err := s.Add(update); err != nil {
		t.Fatalf("Add() upsert error = %v", err)
	}

	got, _ := s.Get("abc")
	if got.Title != "One More Time (Remaster)" {
		t.Errorf("Title = %q, want updated title", got.Title)
	}
	if got.BPM != 123 {
		t.Errorf("BPM = %v, want 123", got.BPM)
	}
	if !got.AddedAt.Equal(first.AddedAt) {
		t.Errorf("AddedAt = %v, want original %v", got.AddedAt, first.AddedAt)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after upsert", s.Len())
	}
}

func TestStoreRemove(t *testing.T) {
	s := testStore(t)

	if err := s.Add(entry("abc", "One More Time")); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Remove("abc"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, ok := s.Get("abc"); ok {
		t.Error("Get() ok = true after Remove")
	}

	if err := s.Remove("abc"); !errors.Is(err, tempoerrors.ErrTrackNotFound) {
		t.Errorf("Remove() twice error = %v, want ErrTrackNotFound", err)
	}
}

func TestStoreSetBPM(t *testing.T) {
	s := testStore(t)
	if err := s.Add(entry("abc", "One More Time")); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	tests := []struct {
		name    string
		id      string
		bpm     float64
		wantErr bool
	}{
		{name: "valid", id: "abc", bpm: 122.5},
		{name: "unknown track", id: "zzz", bpm: 120, wantErr: true},
		{name: "zero", id: "abc", bpm: 0, wantErr: true},
		{name: "negative", id: "abc", bpm: -10, wantErr: true},
		{name: "absurd", id: "abc", bpm: 999, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.SetBPM(tt.id, tt.bpm)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("SetBPM() error = %v", err)
				}
				got, _ := s.Get(tt.id)
				if got.BPM != tt.bpm {
					t.Errorf("BPM = %v, want %v", got.BPM, tt.bpm)
				}
				return
			}
			if err == nil {
				t.Fatal("SetBPM() error = nil, want failure")
			}
			if tempoerrors.KindOf(err) != tempoerrors.KindInput {
				t.Errorf("KindOf() = %v, want KindInput", tempoerrors.KindOf(err))
			}
		})
	}
}

func TestStoreBPMLookup(t *testing.T) {
	s := testStore(t)
	withBPM := entry("abc", "One More Time")
	withBPM.BPM = 123
	if err := s.Add(withBPM); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Add(entry("def", "Around the World")); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if bpm, ok := s.BPM("abc"); !ok || bpm != 123 {
		t.Errorf("BPM(abc) = %v, %v, want 123, true", bpm, ok)
	}
	if _, ok := s.BPM("def"); ok {
		t.Error("BPM(def) ok = true, want false for track without tempo")
	}
	if _, ok := s.BPM("zzz"); ok {
		t.Error("BPM(zzz) ok = true, want false for unknown track")
	}
}

func TestStoreListSorted(t *testing.T) {
	s := testStore(t)
	for _, e := range []Entry{
		entry("1", "zebra"),
		entry("2", "Alpha"),
		entry("3", "mango"),
	} {
		if err := s.Add(e); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	got := s.List()
	want := []string{"Alpha", "mango", "zebra"}
	if len(got) != len(want) {
		t.Fatalf("List() len = %d, want %d", len(got), len(want))
	}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("List()[%d].Title = %q, want %q", i, got[i].Title, title)
		}
	}
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	e := entry("abc", "One More Time")
	e.BPM = 122.5
	if err := s.Add(e); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	// File lands with owner-only permissions.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %o, want 0600", perm)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got, ok := reopened.Get("abc")
	if !ok {
		t.Fatal("Get() ok = false after reload")
	}
	if got.BPM != 122.5 {
		t.Errorf("BPM = %v, want 122.5", got.BPM)
	}
}

func TestStoreSkipsUnchangedWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if err := s.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	e := entry("abc", "One More Time")
	if err := s.Add(e); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.SetBPM("abc", 120); err != nil {
		t.Fatalf("SetBPM() error = %v", err)
	}

	before, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}

	// Same tempo again: content unchanged, file untouched.
	time.Sleep(10 * time.Millisecond)
	if err := s.SetBPM("abc", 120); err != nil {
		t.Fatalf("SetBPM() error = %v", err)
	}
	after, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if !after.ModTime().Equal(before.ModTime()) {
		t.Error("unchanged library was rewritten")
	}
}

func TestEntryTrackConversion(t *testing.T) {
	track := core.Track{
		ID:     "abc",
		URI:    "spotify:track:abc",
		Title:  "One More Time",
		Artist: "Daft Punk",
		Album:  "Discovery",
		BPM:    123,
	}

	e := FromTrack(track)
	if e.AddedAt.IsZero() {
		t.Error("FromTrack() did not stamp AddedAt")
	}

	back := e.Track()
	if back.ID != track.ID || back.URI != track.URI {
		t.Errorf("round trip ids = %q %q, want %q %q", back.ID, back.URI, track.ID, track.URI)
	}
	if back.Title != track.Title || back.Artist != track.Artist || back.Album != track.Album {
		t.Errorf("round trip metadata = %q/%q/%q", back.Title, back.Artist, back.Album)
	}
	if back.BPM != track.BPM {
		t.Errorf("round trip BPM = %v, want %v", back.BPM, track.BPM)
	}
}
