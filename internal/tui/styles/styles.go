// Package styles holds the dashboard's lipgloss styles, backed by a
// catppuccin flavor selected from config.
package styles

import (
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// Palette colors, populated from the active flavor.
var (
	Primary   lipgloss.Color
	Accent    lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Surface   lipgloss.Color
	Border    lipgloss.Color
	Text      lipgloss.Color
	TextMuted lipgloss.Color
	TextDim   lipgloss.Color

	// Tempo is the accent for BPM readouts.
	Tempo lipgloss.Color

	// SpotifyGreen stays fixed across flavors.
	SpotifyGreen = lipgloss.Color("#1DB954")
)

// Text styles
var (
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Highlight lipgloss.Style
	Muted     lipgloss.Style
	Dim       lipgloss.Style
	Playing   lipgloss.Style
	Paused    lipgloss.Style
	BPM       lipgloss.Style
	ErrorText lipgloss.Style
	Selected  lipgloss.Style
)

// Border styles
var (
	BorderStyle   lipgloss.Style
	FocusedBorder lipgloss.Style
)

func init() {
	UseTheme("mocha")
}

// UseTheme selects the catppuccin flavor backing the palette. Unknown
// names fall back to mocha. Call before any rendering; styles are not
// safe to swap mid-frame.
func UseTheme(name string) {
	flavor := catppuccin.Mocha
	switch strings.ToLower(name) {
	case "latte":
		flavor = catppuccin.Latte
	case "frappe":
		flavor = catppuccin.Frappe
	case "macchiato":
		flavor = catppuccin.Macchiato
	}

	Primary = lipgloss.Color(flavor.Mauve().Hex)
	Accent = lipgloss.Color(flavor.Lavender().Hex)
	Success = lipgloss.Color(flavor.Green().Hex)
	Warning = lipgloss.Color(flavor.Yellow().Hex)
	Error = lipgloss.Color(flavor.Red().Hex)
	Surface = lipgloss.Color(flavor.Surface0().Hex)
	Border = lipgloss.Color(flavor.Surface2().Hex)
	Text = lipgloss.Color(flavor.Text().Hex)
	TextMuted = lipgloss.Color(flavor.Subtext0().Hex)
	TextDim = lipgloss.Color(flavor.Overlay0().Hex)
	Tempo = lipgloss.Color(flavor.Peach().Hex)

	rebuild()
}

func rebuild() {
	Title = lipgloss.NewStyle().Bold(true).Foreground(Text)
	Subtitle = lipgloss.NewStyle().Foreground(TextMuted)
	Label = lipgloss.NewStyle().Foreground(TextDim)
	Highlight = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Muted = lipgloss.NewStyle().Foreground(TextMuted)
	Dim = lipgloss.NewStyle().Foreground(TextDim)
	Playing = lipgloss.NewStyle().Foreground(SpotifyGreen)
	Paused = lipgloss.NewStyle().Foreground(Warning)
	BPM = lipgloss.NewStyle().Bold(true).Foreground(Tempo)
	ErrorText = lipgloss.NewStyle().Foreground(Error)
	Selected = lipgloss.NewStyle().Bold(true).Foreground(Primary).Background(Surface)

	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)

	FocusedBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary)
}

// Panel returns the border style for a panel, highlighted when focused.
func Panel(focused bool) lipgloss.Style {
	if focused {
		return FocusedBorder.Padding(0, 1)
	}
	return BorderStyle.Padding(0, 1)
}

// PanelTitle renders a panel title, highlighted when focused.
func PanelTitle(title string, focused bool) string {
	style := Label
	if focused {
		style = Highlight
	}
	return style.Render(" " + title + " ")
}

// ProgressBar renders a progress bar at the given percentage.
func ProgressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	filledStyle := lipgloss.NewStyle().Foreground(Primary)
	emptyStyle := lipgloss.NewStyle().Foreground(Border)

	return filledStyle.Render(strings.Repeat("━", filled)) +
		emptyStyle.Render(strings.Repeat("─", width-filled))
}

// StatusIcon returns an icon for playback status.
func StatusIcon(playing bool) string {
	if playing {
		return Playing.Render("▶")
	}
	return Paused.Render("⏸")
}

// DeviceIcon returns an icon for a normalized device type.
func DeviceIcon(deviceType string) string {
	switch deviceType {
	case "computer":
		return "💻"
	case "phone":
		return "📱"
	case "speaker":
		return "🔊"
	case "tv":
		return "📺"
	default:
		return "🎧"
	}
}
