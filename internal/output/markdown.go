package output

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders md for a terminal of the given width. On failure
// the source is returned unchanged.
func RenderMarkdown(md string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// FactMarkdown formats one tile as a small markdown document.
func FactMarkdown(title, text, image string) string {
	md := fmt.Sprintf("## %s\n\n%s\n", title, text)
	if image != "" {
		md += fmt.Sprintf("\n<%s>\n", image)
	}
	return md
}
