package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	tempoerrors "github.com/soverby/tempo/internal/errors"
	"github.com/soverby/tempo/internal/spotify/player"
	"github.com/soverby/tempo/internal/wizard"
)

var transferPlay bool

var transferCmd = &cobra.Command{
	Use:   "transfer [device]",
	Short: "Transfer playback to another device",
	Long: `Moves the playback session to a different device. The device may
be given by name (case-insensitive, partial names work) or by ID.
Without an argument, an interactive picker opens.

Examples:
  tempo transfer                       # pick a device interactively
  tempo transfer "Kitchen"
  tempo transfer --play "Living Room"  # start playing after the move`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTransfer,
}

func init() {
	transferCmd.Flags().BoolVar(&transferPlay, "play", false, "Start playback after transferring")
	rootCmd.AddCommand(transferCmd)
}

func runTransfer(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	spotifyClient, err := getSpotifyClient()
	if err != nil {
		return err
	}

	var deviceID, deviceName string
	if len(args) > 0 {
		deviceID, err = resolveDevice(ctx, spotifyClient, args[0])
		if err != nil {
			return err
		}
		deviceName = args[0]
	} else {
		if !wizard.IsTerminal() || JSONOutput() {
			return tempoerrors.E(tempoerrors.KindInput, "device name required")
		}

		devices, err := player.New(spotifyClient).GetDevices(ctx)
		if err != nil {
			return fmt.Errorf("failed to get devices: %w", err)
		}

		selected, err := wizard.RunDevicePicker(devices)
		if err != nil {
			return fmt.Errorf("device picker failed: %w", err)
		}
		if selected == nil {
			return nil
		}
		deviceID = selected.ID
		deviceName = selected.Name
	}

	if err := spotifyClient.TransferPlayback(ctx, deviceID, transferPlay); err != nil {
		return fmt.Errorf("failed to transfer playback: %w", err)
	}

	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]string{
			"status":    "transferred",
			"device_id": deviceID,
		})
	} else {
		fmt.Printf("Transferred playback to %s\n", deviceName)
	}

	return nil
}
