// Package output prints styled, human-facing CLI messages.
//
// Functions use lipgloss for styling but abstract away the details from callers.
// Messages go to stdout except Error, which goes to stderr.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	verboseMode bool

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose output for debugging.
// This should be called by the CLI when the --verbose flag is set.
func SetVerbose(v bool) {
	verboseMode = v
}

// SetWriters redirects output, mainly for tests. Nil keeps the current writer.
func SetWriters(out, errOut io.Writer) {
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

// Success prints a success message in green.
//
// Example:
//
//	output.Success("Generated 3 units")
func Success(msg string) {
	fmt.Fprintln(stdout, successStyle.Render("✓ "+msg))
}

// Error prints an error message in red to stderr.
func Error(msg string) {
	fmt.Fprintln(stderr, errorStyle.Render("✗ "+msg))
}

// Info prints an informational message in cyan.
func Info(msg string) {
	fmt.Fprintln(stdout, infoStyle.Render(msg))
}

// Step prints an indented step message in gray.
//
// Example:
//
//	output.Step("tdb_tl.go (48213 bytes)")
func Step(msg string) {
	fmt.Fprintln(stdout, stepStyle.Render("   "+msg))
}

// Verbose prints a debug message only if verbose mode is enabled.
func Verbose(msg string) {
	if verboseMode {
		fmt.Fprintln(stdout, stepStyle.Render("· "+msg))
	}
}
