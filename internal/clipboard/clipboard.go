// Package clipboard copies tile facts to the system clipboard through
// whichever platform tool is installed, falling back to the OSC 52 terminal
// escape when none is.
package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Copier writes text to the clipboard.
type Copier interface {
	Copy(ctx context.Context, text string) error
	Backend() string
}

// backend is one external copy command.
type backend struct {
	name string
	bin  string
	args []string
}

type detector struct {
	goos     string
	getenv   func(string) string
	lookPath func(string) error
	readFile func(string) ([]byte, error)
	terminal io.Writer // nil when stdout is not a terminal
}

func defaultDetector() detector {
	return detector{
		goos:   runtime.GOOS,
		getenv: os.Getenv,
		lookPath: func(bin string) error {
			_, err := exec.LookPath(bin)
			return err
		},
		readFile: os.ReadFile,
		terminal: stdoutTerminal(),
	}
}

func stdoutTerminal() io.Writer {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		return os.Stdout
	}
	return nil
}

// execCopier pipes text into a backend command.
type execCopier struct {
	b backend
}

func (c *execCopier) Copy(ctx context.Context, text string) error {
	cmd := exec.CommandContext(ctx, c.b.bin, c.b.args...)
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("%s: %w: %s", c.b.name, err, msg)
		}
		return fmt.Errorf("%s: %w", c.b.name, err)
	}
	return nil
}

func (c *execCopier) Backend() string { return c.b.name }

// osc52Copier asks the terminal emulator to set the clipboard. Terminals
// that do not support OSC 52 ignore it silently.
type osc52Copier struct {
	out *termenv.Output
}

func (c *osc52Copier) Copy(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.out.Copy(text)
	return nil
}

func (c *osc52Copier) Backend() string { return "osc52" }

// unavailable reports the detection error on every copy, so a missing tool
// surfaces as a failed copy rather than a startup failure.
type unavailable struct{ err error }

func (u unavailable) Copy(context.Context, string) error { return u.err }
func (u unavailable) Backend() string                    { return "none" }

// New picks the best available backend. It never returns nil; without any
// tool every Copy fails with the detection error.
func New() Copier {
	return newWithDetector(defaultDetector())
}

func newWithDetector(det detector) Copier {
	b, err := chooseBackend(det)
	if err != nil {
		if det.terminal != nil {
			return &osc52Copier{out: termenv.NewOutput(det.terminal)}
		}
		return unavailable{err: err}
	}
	return &execCopier{b: b}
}

var (
	pbcopy  = backend{name: "pbcopy", bin: "pbcopy"}
	wlCopy  = backend{name: "wl-copy", bin: "wl-copy"}
	xclip   = backend{name: "xclip", bin: "xclip", args: []string{"-selection", "clipboard"}}
	xsel    = backend{name: "xsel", bin: "xsel", args: []string{"--clipboard", "--input"}}
	clipExe = backend{name: "wsl-clipboard", bin: "clip.exe"}
	winClip = backend{name: "clip", bin: "clip"}
	tmuxBuf = backend{name: "tmux-buffer", bin: "tmux", args: []string{"load-buffer", "-"}}
)

func chooseBackend(det detector) (backend, error) {
	switch det.goos {
	case "darwin":
		if det.lookPath("pbcopy") == nil {
			return pbcopy, nil
		}
		return backend{}, errors.New("pbcopy not found")

	case "windows":
		if det.lookPath("clip") == nil {
			return winClip, nil
		}
		return backend{}, errors.New("clip not found")

	case "linux", "freebsd", "openbsd", "netbsd":
		if isWSL(det) && det.lookPath("clip.exe") == nil {
			return clipExe, nil
		}
		if isWayland(det) && det.lookPath("wl-copy") == nil {
			return wlCopy, nil
		}
		if det.getenv("DISPLAY") != "" {
			if det.lookPath("xclip") == nil {
				return xclip, nil
			}
			if det.lookPath("xsel") == nil {
				return xsel, nil
			}
		}
		if det.lookPath("wl-copy") == nil {
			return wlCopy, nil
		}
		if det.lookPath("tmux") == nil && det.getenv("TMUX") != "" {
			return tmuxBuf, nil
		}
		return backend{}, errors.New("no clipboard utility found (install wl-copy, xclip, or xsel)")

	default:
		return backend{}, fmt.Errorf("clipboard not supported on %s", det.goos)
	}
}

func isWSL(det detector) bool {
	if det.getenv("WSL_DISTRO_NAME") != "" || det.getenv("WSL_INTEROP") != "" {
		return true
	}
	data, err := det.readFile("/proc/version")
	return err == nil && bytes.Contains(bytes.ToLower(data), []byte("microsoft"))
}

func isWayland(det detector) bool {
	if strings.ToLower(det.getenv("XDG_SESSION_TYPE")) == "wayland" {
		return true
	}
	return det.getenv("WAYLAND_DISPLAY") != ""
}
