// Package output provides unified output formatting for text, JSON and YAML.
// All commands use this package for consistent output across the CLI.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format represents the output format type
type Format int

const (
	// FormatText is human-readable formatted text (default)
	FormatText Format = iota
	// FormatJSON is machine-readable JSON output
	FormatJSON
	// FormatYAML is YAML output
	FormatYAML
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "text"
	}
}

// ParseFormat maps a --format value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatText, fmt.Errorf("unknown format %q (want text, json or yaml)", s)
	}
}

// Formatter handles output formatting for commands
type Formatter struct {
	format Format
	writer io.Writer
}

// Option is a functional option for Formatter
type Option func(*Formatter)

// WithFormat sets the output format
func WithFormat(format Format) Option {
	return func(f *Formatter) {
		f.format = format
	}
}

// WithWriter sets the output writer
func WithWriter(w io.Writer) Option {
	return func(f *Formatter) {
		f.writer = w
	}
}

// New creates a new Formatter with the given options
func New(opts ...Option) *Formatter {
	f := &Formatter{
		format: FormatText,
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format returns the configured format.
func (f *Formatter) Format() Format { return f.format }

// Writer returns the destination writer.
func (f *Formatter) Writer() io.Writer { return f.writer }

// IsStructured reports whether output is JSON or YAML.
func (f *Formatter) IsStructured() bool { return f.format != FormatText }

// Data writes v as JSON or YAML. In text mode it falls back to JSON so that
// callers without a text rendering still produce something readable.
func (f *Formatter) Data(v any) error {
	if f.format == FormatYAML {
		return WriteYAML(f.writer, v)
	}
	return WriteJSON(f.writer, v, true)
}

// Printf writes formatted text to the formatter's writer
func (f *Formatter) Printf(format string, args ...any) {
	fmt.Fprintf(f.writer, format, args...)
}

// Println writes text with newline to the formatter's writer
func (f *Formatter) Println(args ...any) {
	fmt.Fprintln(f.writer, args...)
}

// WriteJSON writes data as JSON to the given writer
func WriteJSON(w io.Writer, v any, pretty bool) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

// WriteYAML writes data as YAML to the given writer
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
