package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/soverby/tempo/internal/core"
	"github.com/soverby/tempo/internal/spotify/player"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current playback status",
	Long:  `Shows the current track, progress, BPM, and active device.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	spotifyClient, err := getSpotifyClient()
	if err != nil {
		return err
	}

	p := player.New(spotifyClient)
	state, err := p.GetState(ctx)
	if err != nil {
		return fmt.Errorf("failed to get playback state: %w", err)
	}

	if !state.HasTrack() {
		if JSONOutput() {
			_ = json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
				"playing": false,
				"message": "No active playback",
			})
		} else {
			fmt.Println("No active playback")
		}
		return nil
	}

	// The wire carries no tempo; the library does.
	if !state.Track.HasBPM() {
		if store, err := openLibrary(); err == nil {
			if bpm, ok := store.BPM(state.Track.ID); ok {
				state.Track.BPM = bpm
			}
		}
	}

	if JSONOutput() {
		return outputStatusJSON(state)
	}
	return outputStatusTable(state)
}

func outputStatusJSON(state *core.PlaybackState) error {
	item := map[string]interface{}{
		"is_playing": state.IsPlaying,
		"volume":     state.Volume,
	}

	track := map[string]interface{}{
		"title":    state.Track.Title,
		"artist":   state.Track.Artist,
		"album":    state.Track.Album,
		"duration": state.Track.Duration.String(),
		"uri":      state.Track.URI,
	}
	if state.Track.HasBPM() {
		track["bpm"] = state.Track.BPM
	}
	item["track"] = track
	item["progress"] = state.Progress.String()
	item["progress_percent"] = state.ProgressPercent()

	if state.Device != nil {
		item["device"] = map[string]interface{}{
			"id":        state.Device.ID,
			"name":      state.Device.Name,
			"type":      state.Device.Type,
			"is_active": state.Device.IsActive,
		}
	}

	return json.NewEncoder(os.Stdout).Encode(item)
}

func outputStatusTable(state *core.PlaybackState) error {
	playIcon := "▶"
	if !state.IsPlaying {
		playIcon = "⏸"
	}

	fmt.Printf("%s %s\n", playIcon, state.Track.Title)
	fmt.Printf("  %s — %s\n", state.Track.Artist, state.Track.Album)

	if state.Track.HasBPM() {
		fmt.Printf("  ♩ %.0f BPM\n", state.Track.BPM)
	}

	progressBar := FormatProgress(state.ProgressPercent(), 30)
	fmt.Printf("  %s %s / %s\n",
		progressBar,
		FormatDuration(state.Progress),
		FormatDuration(state.Track.Duration))

	if state.Device != nil {
		fmt.Printf("  📱 %s", state.Device.Name)
		if state.Volume > 0 {
			fmt.Printf(" (🔊 %d%%)", state.Volume)
		}
		fmt.Println()
	}

	return nil
}
