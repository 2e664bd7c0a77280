package clipboard

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
)

func newStubDetector(goos string, env map[string]string, bins map[string]bool, version string) detector {
	return detector{
		goos: goos,
		getenv: func(key string) string {
			return env[key]
		},
		lookPath: func(bin string) error {
			if bins[bin] {
				return nil
			}
			return fmt.Errorf("not found")
		},
		readFile: func(path string) ([]byte, error) {
			if path == "/proc/version" && version != "" {
				return []byte(version), nil
			}
			return nil, os.ErrNotExist
		},
	}
}

func TestChooseBackend(t *testing.T) {
	tests := []struct {
		name    string
		goos    string
		env     map[string]string
		bins    map[string]bool
		version string
		want    string
	}{
		{name: "darwin", goos: "darwin", bins: map[string]bool{"pbcopy": true}, want: "pbcopy"},
		{name: "windows", goos: "windows", bins: map[string]bool{"clip": true}, want: "clip"},
		{name: "wayland", goos: "linux", env: map[string]string{"XDG_SESSION_TYPE": "wayland"}, bins: map[string]bool{"wl-copy": true}, want: "wl-copy"},
		{name: "xclip", goos: "linux", env: map[string]string{"DISPLAY": ":0"}, bins: map[string]bool{"xclip": true, "xsel": true}, want: "xclip"},
		{name: "xsel fallback", goos: "linux", env: map[string]string{"DISPLAY": ":0"}, bins: map[string]bool{"xsel": true}, want: "xsel"},
		{name: "wsl env", goos: "linux", env: map[string]string{"WSL_DISTRO_NAME": "Ubuntu"}, bins: map[string]bool{"clip.exe": true}, want: "wsl-clipboard"},
		{name: "wsl proc version", goos: "linux", bins: map[string]bool{"clip.exe": true}, version: "Linux 5.15 Microsoft", want: "wsl-clipboard"},
		{name: "tmux last resort", goos: "linux", env: map[string]string{"TMUX": "1"}, bins: map[string]bool{"tmux": true}, want: "tmux-buffer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := chooseBackend(newStubDetector(tt.goos, tt.env, tt.bins, tt.version))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b.name != tt.want {
				t.Fatalf("backend = %s, want %s", b.name, tt.want)
			}
		})
	}
}

func TestNoToolsCopierFails(t *testing.T) {
	c := newWithDetector(newStubDetector("linux", nil, nil, ""))
	if c.Backend() != "none" {
		t.Errorf("backend = %s", c.Backend())
	}
	if err := c.Copy(context.Background(), "fact"); err == nil {
		t.Error("expected copy to fail without a clipboard tool")
	}

	if _, err := chooseBackend(newStubDetector("plan9", nil, nil, "")); err == nil {
		t.Error("expected unsupported OS error")
	}
}

func TestOSC52Fallback(t *testing.T) {
	var term bytes.Buffer
	det := newStubDetector("linux", nil, nil, "")
	det.terminal = &term

	c := newWithDetector(det)
	if c.Backend() != "osc52" {
		t.Fatalf("backend = %s, want osc52", c.Backend())
	}
	if err := c.Copy(context.Background(), "fact"); err != nil {
		t.Fatalf("copy: %v", err)
	}
	// base64("fact")
	if out := term.String(); !strings.Contains(out, "]52;") || !strings.Contains(out, "ZmFjdA==") {
		t.Errorf("escape = %q", out)
	}
}
