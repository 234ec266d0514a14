package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/soverby/tempo/internal/core"
	"github.com/soverby/tempo/internal/library"
	"github.com/soverby/tempo/internal/spotify/player"
	"github.com/soverby/tempo/internal/tail"
)

var (
	tailNoEmoji   bool
	tailTimestamp bool
	tailFormat    string
	tailInterval  time.Duration
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow playback changes in real-time",
	Long: `Watch for playback state changes and print them as they happen.
Tracks found in the library are annotated with their BPM.

Events tracked:
  - Track changes (new song started)
  - Track completions (song finished)
  - Track skips (song skipped before completion)
  - Pause/Resume
  - Volume changes
  - Device changes`,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().BoolVar(&tailNoEmoji, "no-emoji", false, "disable emoji output")
	tailCmd.Flags().BoolVarP(&tailTimestamp, "timestamp", "t", false, "show timestamps")
	tailCmd.Flags().StringVarP(&tailFormat, "format", "f", "", "custom format template")
	tailCmd.Flags().DurationVarP(&tailInterval, "interval", "i", time.Second, "poll interval")

	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	spotifyClient, err := getSpotifyClient()
	if err != nil {
		return err
	}
	p := player.New(spotifyClient)

	// Config interval applies unless the flag was given explicitly.
	interval := tailInterval
	if !cmd.Flags().Changed("interval") && cfg.Tail.Interval > 0 {
		interval = time.Duration(cfg.Tail.Interval) * time.Second
	}

	formatter := tail.NewFormatter(
		tail.WithEmoji(!tailNoEmoji),
		tail.WithTimestamp(tailTimestamp),
		tail.WithTemplate(tailFormat),
	)

	// Handle Ctrl+C gracefully
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	var store *library.Store
	if s, err := openLibrary(); err == nil {
		store = s
	}

	// Show recently played tracks and current song on startup
	showInitialState(ctx, p, formatter, store)

	watcher := tail.NewWatcher(p, interval)
	if store != nil {
		watcher.SetBPMSource(store)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Start(ctx)
	}()

	// Print events as they arrive
	for {
		select {
		case event, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			fmt.Println(formatter.Format(event))

		case err := <-errCh:
			if err == context.Canceled {
				return nil
			}
			return err
		}
	}
}

// showInitialState displays recently played tracks and current song on startup.
func showInitialState(ctx context.Context, p core.Player, formatter *tail.Formatter, store *library.Store) {
	// Recently played, oldest first so the newest sits at the bottom
	history, err := p.GetRecentlyPlayed(ctx, 5)
	if err == nil && len(history) > 0 {
		for i := len(history) - 1; i >= 0; i-- {
			entry := history[i]
			if entry.Track == nil {
				continue
			}
			timestamp := ""
			if tailTimestamp {
				timestamp = entry.PlayedAt.Local().Format("15:04:05") + " "
			}
			emoji := ""
			if !tailNoEmoji {
				emoji = "⏪ "
			}
			fmt.Printf("%s%s%s — %s (%s)\n", timestamp, emoji, entry.Track.Artist, entry.Track.Title, humanize.Time(entry.PlayedAt))
		}
	}

	state, err := p.GetState(ctx)
	if err != nil || !state.HasTrack() {
		return
	}
	if !state.Track.HasBPM() && store != nil {
		if bpm, ok := store.BPM(state.Track.ID); ok {
			state.Track.BPM = bpm
		}
	}
	fmt.Println(formatter.Format(tail.Event{
		Type:    tail.EventTrackChange,
		Current: state,
	}))
}
