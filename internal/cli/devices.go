package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soverby/tempo/internal/core"
	"github.com/soverby/tempo/internal/spotify/player"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available playback devices",
	Long:  `Lists the Spotify Connect devices that can receive playback.`,
	RunE:  runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	spotifyClient, err := getSpotifyClient()
	if err != nil {
		return err
	}

	p := player.New(spotifyClient)
	devices, err := p.GetDevices(ctx)
	if err != nil {
		return fmt.Errorf("failed to get devices: %w", err)
	}

	if len(devices) == 0 {
		if JSONOutput() {
			_ = json.NewEncoder(os.Stdout).Encode([]interface{}{})
		} else {
			fmt.Println("No devices found")
			fmt.Println("Make sure Spotify is open on at least one device.")
		}
		return nil
	}

	if JSONOutput() {
		return outputDevicesJSON(devices)
	}
	outputDevicesTable(devices)
	return nil
}

func outputDevicesJSON(devices []core.Device) error {
	output := make([]map[string]interface{}, 0, len(devices))

	for _, d := range devices {
		item := map[string]interface{}{
			"id":        d.ID,
			"name":      d.Name,
			"type":      d.Type,
			"is_active": d.IsActive,
		}
		if d.Volume > 0 {
			item["volume"] = d.Volume
		}
		if d.Restricted {
			item["restricted"] = true
		}
		output = append(output, item)
	}

	return json.NewEncoder(os.Stdout).Encode(output)
}

func outputDevicesTable(devices []core.Device) {
	for _, d := range devices {
		printDevice(d)
	}
}

func printDevice(d core.Device) {
	var markers []string
	if isDefaultDevice(d) {
		markers = append(markers, "★ default")
	}
	if d.Volume > 0 {
		markers = append(markers, fmt.Sprintf("🔊 %d%%", d.Volume))
	}
	if d.Restricted {
		markers = append(markers, "restricted")
	}

	suffix := ""
	if len(markers) > 0 {
		suffix = " (" + strings.Join(markers, ", ") + ")"
	}

	fmt.Printf("%s %s %s%s\n", StatusIcon(d.IsActive), getDeviceIcon(d.Type), d.Name, suffix)

	if Verbose() {
		fmt.Printf("    ID: %s\n", d.ID)
		fmt.Printf("    Type: %s\n", d.Type)
	}
}

// isDefaultDevice reports whether d matches the configured default
// device, by name or ID.
func isDefaultDevice(d core.Device) bool {
	def := cfg.Defaults.Device
	if def == "" {
		return false
	}
	return d.ID == def || strings.EqualFold(d.Name, def)
}

func getDeviceIcon(deviceType core.DeviceType) string {
	switch deviceType {
	case core.DeviceTypeComputer:
		return "💻"
	case core.DeviceTypePhone:
		return "📱"
	case core.DeviceTypeSpeaker:
		return "🔊"
	case core.DeviceTypeTV:
		return "📺"
	default:
		return "🎧"
	}
}
