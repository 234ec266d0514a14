package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestTableOutput(t *testing.T) {
	var buf bytes.Buffer
	table := NewTableWriter(&buf, "TITLE", "ARTIST", "BPM")
	table.Row("One More Time", "Daft Punk", "123")
	table.Row("Around the World", "Daft Punk", "121")
	table.Flush()

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("line count = %d, want 3:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "TITLE") {
		t.Errorf("header = %q, want TITLE first", lines[0])
	}
	if !strings.Contains(lines[1], "123") {
		t.Errorf("row = %q, want BPM column", lines[1])
	}

	// Columns align: ARTIST starts at the same offset in every line
	col := strings.Index(lines[0], "ARTIST")
	if col < 0 {
		t.Fatalf("header missing ARTIST: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1][col:], "Daft Punk") {
		t.Errorf("row 1 not aligned at col %d: %q", col, lines[1])
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		s      string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a long string", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcdef", 2, "ab"},
	}

	for _, tt := range tests {
		if got := TruncateString(tt.s, tt.maxLen); got != tt.want {
			t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{42 * time.Second, "0:42"},
		{3*time.Minute + 5*time.Second, "3:05"},
		{61 * time.Minute, "1:01:00"},
		{-time.Second, "0:00"},
		{2*time.Second + 700*time.Millisecond, "0:03"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatProgress(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		width   int
		filled  int
	}{
		{"empty", 0, 10, 0},
		{"half", 50, 10, 5},
		{"full", 100, 10, 10},
		{"clamped high", 150, 10, 10},
		{"clamped low", -5, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatProgress(tt.percent, tt.width)
			if n := strings.Count(got, "━"); n != tt.filled {
				t.Errorf("filled = %d, want %d (%q)", n, tt.filled, got)
			}
			if n := strings.Count(got, "━") + strings.Count(got, "─"); n != tt.width {
				t.Errorf("width = %d, want %d (%q)", n, tt.width, got)
			}
		})
	}
}

func TestFormatProgressZeroWidth(t *testing.T) {
	if got := FormatProgress(50, 0); got != "" {
		t.Errorf("FormatProgress(50, 0) = %q, want empty", got)
	}
}
