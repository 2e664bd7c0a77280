package output

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// DefaultWidth is used when the terminal width is unknown.
const DefaultWidth = 80

// IsTerminal returns true when the writer is a terminal.
func IsTerminal(w io.Writer) bool {
	return isTTY(w)
}

// IsTerminalReader returns true when the reader is a terminal.
func IsTerminalReader(r io.Reader) bool {
	return isTTY(r)
}

func isTTY(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Width returns the column count of the terminal behind w, or DefaultWidth.
func Width(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return DefaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}
