// Package library persists the user's track collection along with
// tempo metadata. The playback session consults it to annotate
// now-playing updates with BPM.
package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/soverby/tempo/internal/core"
	tempoerrors "github.com/soverby/tempo/internal/errors"
)

const (
	// DefaultFileName is the default name for the library file.
	DefaultFileName = "library.json"

	// MaxBPM bounds SetBPM input. Nothing danceable lives past it.
	MaxBPM = 400
)

// Entry is one track in the library.
type Entry struct {
	ID      string    `json:"id"`
	URI     string    `json:"uri"`
	Title   string    `json:"title"`
	Artist  string    `json:"artist"`
	Album   string    `json:"album,omitempty"`
	BPM     float64   `json:"bpm,omitempty"`
	AddedAt time.Time `json:"added_at"`
}

// Track converts the entry to a core track.
func (e Entry) Track() core.Track {
	return core.Track{
		ID:     e.ID,
		URI:    e.URI,
		Title:  e.Title,
		Artist: e.Artist,
		Album:  e.Album,
		BPM:    e.BPM,
	}
}

// FromTrack builds an entry from a track, stamping AddedAt.
func FromTrack(t core.Track) Entry {
	return Entry{
		ID:      t.ID,
		URI:     t.URI,
		Title:   t.Title,
		Artist:  t.Artist,
		Album:   t.Album,
		BPM:     t.BPM,
		AddedAt: time.Now(),
	}
}

// Store is the on-disk track library. Mutations persist immediately;
// a content hash skips rewriting an unchanged file.
type Store struct {
	mu      sync.RWMutex
	path    string
	entries []Entry
	hash    uint64
}

// NewStore creates a library store at the specified path. If path is
// empty, uses the default location (~/.config/tempo/library.json).
func NewStore(path string) (*Store, error) {
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		path = filepath.Join(configDir, "tempo", DefaultFileName)
	}

	return &Store{path: path}, nil
}

// Load reads the library from disk. A missing file is an empty
// library, not an error.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.entries = nil
			s.hash = 0
			return nil
		}
		return fmt.Errorf("failed to read library file: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse library file: %w", err)
	}

	hash, err := hashstructure.Hash(entries, hashstructure.FormatV2, nil)
	if err != nil {
		return fmt.Errorf("failed to hash library: %w", err)
	}

	s.entries = entries
	s.hash = hash
	return nil
}

// Add upserts an entry. Re-adding a track updates its metadata but
// keeps the original AddedAt.
func (s *Store) Add(e Entry) error {
	if e.ID == "" || e.URI == "" {
		return tempoerrors.E(tempoerrors.KindInput, "library entry needs an id and uri")
	}
	if e.AddedAt.IsZero() {
		e.AddedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(e.ID); i >= 0 {
		e.AddedAt = s.entries[i].AddedAt
		s.entries[i] = e
	} else {
		s.entries = append(s.entries, e)
	}
	return s.saveLocked()
}

// Remove deletes a track by id.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return tempoerrors.ErrTrackNotFound
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return s.saveLocked()
}

// SetBPM records a tempo for a stored track.
func (s *Store) SetBPM(id string, bpm float64) error {
	if bpm <= 0 || bpm > MaxBPM {
		return tempoerrors.E(tempoerrors.KindInput,
			fmt.Sprintf("bpm must be between 1 and %d", MaxBPM))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return tempoerrors.ErrTrackNotFound
	}
	s.entries[i].BPM = bpm
	return s.saveLocked()
}

// Get returns the entry for id.
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(id); i >= 0 {
		return s.entries[i], true
	}
	return Entry{}, false
}

// BPM looks up the stored tempo for a track. It reports false when the
// track is absent or has no tempo recorded. Satisfies the playback
// engine's BPMSource.
func (s *Store) BPM(trackID string) (float64, bool) {
	e, ok := s.Get(trackID)
	if !ok || e.BPM <= 0 {
		return 0, false
	}
	return e.BPM, true
}

// List returns all entries sorted by title, then artist.
func (s *Store) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]Entry(nil), s.entries...)
	sort.Slice(out, func(i, j int) bool {
		ti, tj := strings.ToLower(out[i].Title), strings.ToLower(out[j].Title)
		if ti != tj {
			return ti < tj
		}
		return strings.ToLower(out[i].Artist) < strings.ToLower(out[j].Artist)
	})
	return out
}

// Len returns the number of stored tracks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Path returns the path to the library file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) indexLocked(id string) int {
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) saveLocked() error {
	hash, err := hashstructure.Hash(s.entries, hashstructure.FormatV2, nil)
	if err != nil {
		return fmt.Errorf("failed to hash library: %w", err)
	}
	if hash == s.hash {
		return nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create library directory: %w", err)
	}

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal library: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write library file: %w", err)
	}

	s.hash = hash
	return nil
}
