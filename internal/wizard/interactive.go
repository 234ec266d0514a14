package wizard

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal returns true if stdout is a terminal. Commands fall back
// from wizards to plain errors when it isn't.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
