// Package console formats user-facing messages for stderr.
//
// Every Format* helper returns plain text prefixed with a status glyph. When
// stderr is a terminal the text is additionally coloured with lipgloss;
// otherwise it is left unstyled so output stays grep-able in CI logs.
package console

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/agenticqa/gh-preflight/pkg/tty"
)

var isTTY = tty.IsStderrTerminal

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#D73737")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D7A600"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A"))
	verboseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8B8B8B")).Italic(true)
	commandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A855F7")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

func applyStyle(style lipgloss.Style, text string) string {
	if !isTTY() {
		return text
	}
	return style.Render(text)
}

// FormatErrorMessage formats an error line.
func FormatErrorMessage(message string) string {
	return applyStyle(errorStyle, "✗ ") + message
}

// FormatWarningMessage formats a warning line.
func FormatWarningMessage(message string) string {
	return applyStyle(warningStyle, "⚠ "+message)
}

// FormatInfoMessage formats an informational line.
func FormatInfoMessage(message string) string {
	return applyStyle(infoStyle, "ℹ "+message)
}

// FormatSuccessMessage formats a success line.
func FormatSuccessMessage(message string) string {
	return applyStyle(successStyle, "✓ "+message)
}

// FormatVerboseMessage formats a line shown only with --verbose.
func FormatVerboseMessage(message string) string {
	return applyStyle(verboseStyle, "  "+message)
}

// FormatCommandMessage formats a command the user can copy.
func FormatCommandMessage(command string) string {
	return applyStyle(commandStyle, command)
}

// FormatListItem formats one bullet of a list.
func FormatListItem(item string) string {
	return "  • " + item
}

// LogVerbose prints message to stderr when verbose is set.
func LogVerbose(verbose bool, message string) {
	if verbose {
		fmt.Fprintln(os.Stderr, FormatVerboseMessage(message))
	}
}

// IsAccessibleMode reports whether animated and full-screen output should be
// avoided, as requested by the ACCESSIBLE environment variable or a dumb
// terminal.
func IsAccessibleMode() bool {
	return os.Getenv("ACCESSIBLE") != "" || os.Getenv("TERM") == "dumb"
}
