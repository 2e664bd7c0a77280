package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/critters/internal/tui/theme"
)

// CLIError represents a structured CLI error with remediation hints.
type CLIError struct {
	Message string // What failed
	Cause   string // Why it failed (optional)
	Hint    string // Fastest command/action to fix it (optional)
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	if e.Cause == "" {
		return e.Message
	}
	return e.Message + ": " + e.Cause
}

// NewCLIError creates a new CLI error with just a message.
func NewCLIError(msg string) *CLIError {
	return &CLIError{Message: msg}
}

// WithCause adds a cause to the error.
func (e *CLIError) WithCause(cause string) *CLIError {
	e.Cause = cause
	return e
}

// WithHint adds a remediation hint to the error.
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// FormatError renders err for a terminal. CLIErrors get their cause and
// hint on separate lines.
func FormatError(err error, useColor bool) string {
	var e *CLIError
	if !errors.As(err, &e) {
		e = &CLIError{Message: err.Error()}
	}

	t := theme.Plain
	label := func(s string, _ lipgloss.Color, _ bool) string { return s }
	if useColor {
		t = theme.FromName(theme.NameAuto)
		label = func(s string, c lipgloss.Color, bold bool) string {
			return lipgloss.NewStyle().Foreground(c).Bold(bold).Render(s)
		}
	}

	var sb strings.Builder
	sb.WriteString(label("Error: ", t.Error, true))
	sb.WriteString(e.Message)
	sb.WriteString("\n")
	if e.Cause != "" {
		sb.WriteString(label("  Cause: ", t.Subtext, false))
		sb.WriteString(e.Cause)
		sb.WriteString("\n")
	}
	if e.Hint != "" {
		sb.WriteString(label("  Hint: ", t.Info, false))
		sb.WriteString(e.Hint)
		sb.WriteString("\n")
	}
	return sb.String()
}

// PrintError writes err to w, in color when w is a terminal and NO_COLOR
// is unset.
func PrintError(w io.Writer, err error) {
	useColor := IsTerminal(w) && !theme.NoColorEnabled()
	fmt.Fprint(w, FormatError(err, useColor))
}

// PrintErrorToStderr is PrintError on os.Stderr.
func PrintErrorToStderr(err error) {
	PrintError(os.Stderr, err)
}
