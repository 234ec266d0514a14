package player

import (
	"testing"
	"time"

	"github.com/soverby/tempo/internal/core"
	"github.com/soverby/tempo/internal/spotify/client"
)

func TestConvertTrack(t *testing.T) {
	spotifyTrack := &client.Track{
		ID:         "track123",
		URI:        "spotify:track:track123",
		Name:       "Test Song",
		DurationMS: 180000,
		Artists: []client.Artist{
			{Name: "Artist One"},
			{Name: "Artist Two"},
		},
		Album: client.Album{
			Name: "Test Album",
		},
	}

	coreTrack := convertTrack(spotifyTrack)

	if coreTrack.ID != "track123" {
		t.Errorf("ID = %q, want %q", coreTrack.ID, "track123")
	}
	if coreTrack.Title != "Test Song" {
		t.Errorf("Title = %q, want %q", coreTrack.Title, "Test Song")
	}
	if coreTrack.Artist != "Artist One" {
		t.Errorf("Artist = %q, want %q", coreTrack.Artist, "Artist One")
	}
	if len(coreTrack.Artists) != 2 {
		t.Errorf("Artists count = %d, want 2", len(coreTrack.Artists))
	}
	if coreTrack.Album != "Test Album" {
		t.Errorf("Album = %q, want %q", coreTrack.Album, "Test Album")
	}
	if coreTrack.Duration != 180*time.Second {
		t.Errorf("Duration = %v, want %v", coreTrack.Duration, 180*time.Second)
	}
	if coreTrack.HasBPM() {
		t.Error("HasBPM() = true for a wire track, want false")
	}
}

func TestConvertDevice(t *testing.T) {
	spotifyDevice := &client.Device{
		ID:       "device123",
		Name:     "My Speaker",
		Type:     "Speaker",
		IsActive: true,
	}

	coreDevice := convertDevice(spotifyDevice)

	if coreDevice.ID != "device123" {
		t.Errorf("ID = %q, want %q", coreDevice.ID, "device123")
	}
	if coreDevice.Name != "My Speaker" {
		t.Errorf("Name = %q, want %q", coreDevice.Name, "My Speaker")
	}
	if coreDevice.Type != core.DeviceTypeSpeaker {
		t.Errorf("Type = %q, want %q", coreDevice.Type, core.DeviceTypeSpeaker)
	}
	if !coreDevice.IsActive {
		t.Error("IsActive = false, want true")
	}
}

func TestConvertNilTrack(t *testing.T) {
	result := convertTrack(nil)
	if result != nil {
		t.Error("Expected nil for nil input")
	}
}

func TestConvertNilDevice(t *testing.T) {
	result := convertDevice(nil)
	if result != nil {
		t.Error("Expected nil for nil input")
	}
}

func TestSnapshotFromState(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	state := &client.PlaybackState{
		IsPlaying:  true,
		ProgressMS: 45000,
		Item: &client.Track{
			ID:         "track123",
			URI:        "spotify:track:track123",
			Name:       "Test Song",
			DurationMS: 180000,
			Artists:    []client.Artist{{Name: "Artist One"}},
		},
	}

	snap := snapshotFromState(state, now)

	if snap == nil {
		t.Fatal("snapshot is nil, want non-nil")
	}
	if snap.Track == nil || snap.Track.ID != "track123" {
		t.Errorf("Track = %+v, want ID track123", snap.Track)
	}
	if !snap.IsPlaying {
		t.Error("IsPlaying = false, want true")
	}
	if snap.Position != 45*time.Second {
		t.Errorf("Position = %v, want %v", snap.Position, 45*time.Second)
	}
	if snap.Duration != 180*time.Second {
		t.Errorf("Duration = %v, want %v", snap.Duration, 180*time.Second)
	}
	if !snap.SampledAt.Equal(now) {
		t.Errorf("SampledAt = %v, want %v", snap.SampledAt, now)
	}
}

func TestSnapshotFromStateIdle(t *testing.T) {
	now := time.Now()

	if snap := snapshotFromState(nil, now); snap != nil {
		t.Errorf("snapshot for nil state = %+v, want nil", snap)
	}

	// An ad or podcast episode comes back with no item; it reads the
	// same as nothing loaded.
	state := &client.PlaybackState{IsPlaying: true, ProgressMS: 1000}
	if snap := snapshotFromState(state, now); snap != nil {
		t.Errorf("snapshot for itemless state = %+v, want nil", snap)
	}
}
