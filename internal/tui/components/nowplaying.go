package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/soverby/tempo/internal/core"
	"github.com/soverby/tempo/internal/tui/styles"
)

// NowPlaying displays the currently playing track
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the now playing panel
func (n *NowPlaying) Render(state *core.PlaybackState, width, height int, focused bool) string {
	title := styles.PanelTitle("Now Playing", focused)

	var content string
	if state == nil || state.Track == nil {
		content = styles.Muted.Render("No track playing")
	} else {
		content = n.renderTrack(state, width-4)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (n *NowPlaying) renderTrack(state *core.PlaybackState, width int) string {
	track := state.Track

	// Status icon and track title
	icon := styles.StatusIcon(state.IsPlaying)
	title := styles.Title.Width(width - 4).Render(track.Title)

	// Artist and album
	artist := styles.Subtitle.Render(track.Artist)
	album := styles.Dim.Render(track.Album)

	// Tempo readout
	bpm := styles.Dim.Render("♩ --- BPM")
	if track.HasBPM() {
		bpm = styles.BPM.Render(fmt.Sprintf("♩ %.0f BPM", track.BPM))
	}

	// Progress bar
	progressWidth := width - 14 // Account for times on either side
	if progressWidth < 10 {
		progressWidth = 10
	}
	progressBar := styles.ProgressBar(state.ProgressPercent(), progressWidth)
	currentTime := formatDuration(state.Progress)
	totalTime := formatDuration(track.Duration)
	progress := fmt.Sprintf("%s %s %s", currentTime, progressBar, totalTime)

	// Device info
	deviceInfo := ""
	if state.Device != nil {
		deviceIcon := styles.DeviceIcon(string(state.Device.Type))
		deviceInfo = fmt.Sprintf("%s %s", deviceIcon, state.Device.Name)
		if state.Volume > 0 {
			deviceInfo += fmt.Sprintf(" 🔊 %d%%", state.Volume)
		}
		deviceInfo = styles.Muted.Render(deviceInfo)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		icon+" "+title,
		"  "+artist,
		"  "+album,
		"  "+bpm,
		"",
		progress,
		"",
		deviceInfo,
	)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d", m, s)
}
