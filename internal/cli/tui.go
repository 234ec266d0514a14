package cli

import (
	"github.com/spf13/cobra"

	tempoerrors "github.com/soverby/tempo/internal/errors"
	"github.com/soverby/tempo/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui", "dashboard"},
	Short:   "Launch interactive dashboard",
	Long: `Launch the interactive terminal dashboard.

The dashboard provides a live session view with:
  • Now Playing - current track, tempo, progress, device
  • Library - your tagged tracks with BPM
  • Devices - available playback devices
  • History - recently played tracks

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ?            Help
  /            Search
  Space        Play/Pause
  n            Next track
  p            Previous track
  +/-          Volume up/down
  Tab          Switch panel`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if cfg.Spotify.ClientID == "" {
		return tempoerrors.E(tempoerrors.KindInput, "spotify not configured. Set spotify.client_id in ~/.temporc")
	}
	return tui.Run(cfg)
}
