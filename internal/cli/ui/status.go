package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Success writes a green `✓ message` line
func Success(w io.Writer, noColor bool, format string, args ...any) {
	colorFor(noColor, color.FgGreen).Fprintf(w, "✓ %s\n", fmt.Sprintf(format, args...))
}

// Failure writes a red `✗ message` line
func Failure(w io.Writer, noColor bool, format string, args ...any) {
	colorFor(noColor, color.FgRed, color.Bold).Fprintf(w, "✗ %s\n", fmt.Sprintf(format, args...))
}

// Hint writes a cyan informational line, such as a follow-up command
func Hint(w io.Writer, noColor bool, format string, args ...any) {
	colorFor(noColor, color.FgCyan, color.Bold).Fprintf(w, "%s\n", fmt.Sprintf(format, args...))
}
