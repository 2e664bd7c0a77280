// Package logging builds the zerolog loggers used across critters.
//
// The TUI owns the terminal, so interactive sessions log to a file under the
// state directory; headless commands log to stderr.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Nop discards everything. Packages fall back to it when no logger is given.
var Nop = zerolog.Nop()

// Config holds logger configuration options.
type Config struct {
	// Level is the minimum level: trace, debug, info, warn, error, off.
	Level string
	// Format is console or json.
	Format string
	// Output is stderr, stdout, discard, or a file path.
	Output string
	// NoColor disables color in console format.
	NoColor bool
}

// DefaultConfig logs info and above to stderr in console format.
func DefaultConfig() Config {
	return Config{
		Level:   "info",
		Format:  "console",
		Output:  "stderr",
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

// New creates a logger from cfg. The returned closer releases the log file,
// if one was opened.
func New(cfg Config) (zerolog.Logger, func() error) {
	level := ParseLevel(cfg.Level)
	w, closer := writer(cfg)

	logger := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()

	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger, closer
}

// DefaultFile returns the log file used by the interactive panel.
func DefaultFile() string {
	return filepath.Join(StateDir(), "critters.log")
}

// StateDir returns $XDG_STATE_HOME/critters, or ~/.local/state/critters.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "critters")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".critters"
	}
	return filepath.Join(home, ".local", "state", "critters")
}

func writer(cfg Config) (io.Writer, func() error) {
	noop := func() error { return nil }

	var out io.Writer
	closer := noop
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	case "discard", "none":
		return io.Discard, noop
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Output), 0755); err != nil {
			out = os.Stderr
			break
		}
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			out = os.Stderr
			break
		}
		out = f
		closer = f.Close
	}

	if strings.ToLower(cfg.Format) == "json" {
		return out, closer
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.Kitchen,
		NoColor:    cfg.NoColor || out != os.Stderr,
	}, closer
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "", "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "none", "off":
		return zerolog.Disabled
	default:
		if l, err := zerolog.ParseLevel(level); err == nil {
			return l
		}
		return zerolog.InfoLevel
	}
}
