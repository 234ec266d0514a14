package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/soverby/tempo/internal/library"
	"github.com/soverby/tempo/internal/tui/styles"
)

// Library displays the track library with tempo markings.
type Library struct {
	offset int
	cursor int
}

// NewLibrary creates a new Library component
func NewLibrary() *Library {
	return &Library{}
}

// MoveDown moves the cursor down, scrolling as needed.
func (l *Library) MoveDown(total int) {
	if l.cursor < total-1 {
		l.cursor++
	}
}

// MoveUp moves the cursor up.
func (l *Library) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// Cursor returns the cursor index.
func (l *Library) Cursor() int {
	return l.cursor
}

// Render renders the library panel. The entry matching nowPlayingID is
// marked as on air.
func (l *Library) Render(entries []library.Entry, nowPlayingID string, width, height int, focused bool) string {
	title := styles.PanelTitle("Library", focused)

	var content string
	if len(entries) == 0 {
		content = styles.Muted.Render("Library is empty — add tracks with 'tempo library add'")
	} else {
		content = l.renderEntries(entries, nowPlayingID, width-4, height-4, focused)
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

func (l *Library) renderEntries(entries []library.Entry, nowPlayingID string, width, maxLines int, focused bool) string {
	// Clamp cursor and keep it inside the visible window.
	if l.cursor >= len(entries) {
		l.cursor = len(entries) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}

	visibleCount := maxLines - 1 // Leave room for "more" indicator
	if visibleCount < 1 {
		visibleCount = 1
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+visibleCount {
		l.offset = l.cursor - visibleCount + 1
	}

	start := l.offset
	end := start + visibleCount
	if end > len(entries) {
		end = len(entries)
	}

	lines := make([]string, 0, end-start+1)

	// Fixed overhead: cursor (2) + on-air marker (2) + " — " (3) +
	// BPM column (8)
	const overhead = 15

	for i := start; i < end; i++ {
		entry := entries[i]

		selector := "  "
		if focused && i == l.cursor {
			selector = "▸ "
		}

		onAir := i < len(entries) && entry.ID == nowPlayingID && nowPlayingID != ""

		// BPM column, right-aligned
		bpmCol := styles.Dim.Render("  ---")
		if entry.BPM > 0 {
			bpmCol = styles.BPM.Render(fmt.Sprintf("%5.0f", entry.BPM))
		}

		available := width - overhead
		title, artist := fitTitleArtist(entry.Title, entry.Artist, available)

		var line string
		switch {
		case onAir:
			line = selector + styles.Playing.Render(fmt.Sprintf("▶ %s — %s", title, artist)) + " " + bpmCol
		case focused && i == l.cursor:
			line = selector + styles.Highlight.Render(fmt.Sprintf("  %s — %s", title, artist)) + " " + bpmCol
		default:
			line = fmt.Sprintf("%s  %s — %s %s",
				selector,
				title,
				styles.Muted.Render(artist),
				bpmCol)
		}

		lines = append(lines, line)
	}

	// Show "more" indicator
	if end < len(entries) {
		more := styles.Dim.Render(fmt.Sprintf("    ... and %d more", len(entries)-end))
		lines = append(lines, more)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// fitTitleArtist truncates a title/artist pair into the available
// width, keeping the artist at least a third of the space.
func fitTitleArtist(title, artist string, available int) (string, string) {
	if len(title)+len(artist) <= available {
		return title, artist
	}

	minArtist := available / 3
	if minArtist < 10 {
		minArtist = 10
	}
	if minArtist > available-10 {
		minArtist = available - 10
	}

	artistSpace := minArtist
	if len(artist) < artistSpace {
		artistSpace = len(artist)
	}
	titleSpace := available - artistSpace

	return truncate(title, titleSpace), truncate(artist, artistSpace)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
