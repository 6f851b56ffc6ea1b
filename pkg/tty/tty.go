// Package tty reports whether the standard streams are attached to a terminal.
package tty

import (
	"os"

	"golang.org/x/term"
)

// IsStdoutTerminal returns true when stdout is a terminal.
func IsStdoutTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsStderrTerminal returns true when stderr is a terminal.
func IsStderrTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// IsStdinTerminal returns true when stdin is a terminal. Interactive prompts
// are only offered when this holds.
func IsStdinTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
