package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode is how human-readable output is presented.
type OutputMode int

const (
	// OutputModePlain writes undecorated text.
	OutputModePlain OutputMode = iota
	// OutputModeStyled writes lipgloss-styled text without interaction.
	OutputModeStyled
	// OutputModeInteractive runs a Bubble Tea program.
	OutputModeInteractive
)

// String returns the mode name.
func (m OutputMode) String() string {
	switch m {
	case OutputModeInteractive:
		return "interactive"
	case OutputModeStyled:
		return "styled"
	case OutputModePlain:
		return "plain"
	default:
		return "plain"
	}
}

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// DetectOutputMode picks the output mode for stdout. plain and noColor force
// plain output, as do NO_COLOR and TERM=dumb. forceColor selects styled output
// even when stdout is not a terminal. Interactive mode requires both stdin and
// stdout to be terminals.
func DetectOutputMode(forceColor, noColor, plain bool) OutputMode {
	if plain || noColor {
		return OutputModePlain
	}
	if os.Getenv("NO_COLOR") != "" {
		return OutputModePlain
	}
	if os.Getenv("TERM") == "dumb" {
		return OutputModePlain
	}
	if forceColor {
		return OutputModeStyled
	}
	if !IsTTY() {
		return OutputModePlain
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || os.Getenv("CI") != "" {
		return OutputModeStyled
	}
	return OutputModeInteractive
}
