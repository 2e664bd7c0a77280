// Package markup builds the HTML fragments for tile bodies. Every value
// coming from a remote API or a definition is escaped before insertion.
package markup

import (
	"strings"

	"github.com/theirongolddev/critters/internal/imagefallback"
	"github.com/theirongolddev/critters/internal/tile"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Escape escapes s for element content.
func Escape(s string) string {
	return htmlEscaper.Replace(s)
}

// EscapeAttr escapes s for a double-quoted attribute value.
func EscapeAttr(s string) string {
	return Escape(s)
}

// Fixed fragments.
const (
	LoadingBlock = `<div class="tile-loading">Loading…</div>`
	CachedBadge  = `<div class="cached-badge" title="Cached">Cached</div>`
	staleBadge   = `<div class="stale-badge" title="Stale (auto refreshing)">Stale</div>`
)

// StaleBadge returns the stale marker.
func StaleBadge() string { return staleBadge }

// Tile renders a result: the image, if any, then the fact paragraph.
func Tile(res tile.Result, def tile.Definition) string {
	return TileWithImage(res, def, imagefallback.Image{Src: res.Image, State: imageState(res)})
}

// TileWithImage renders a result using an already resolved image.
func TileWithImage(res tile.Result, def tile.Definition, img imagefallback.Image) string {
	var b strings.Builder
	switch img.State {
	case imagefallback.StateOriginal, imagefallback.StatePlaceholder:
		b.WriteString(`<img class="animal-img" data-tile="`)
		b.WriteString(EscapeAttr(def.ID))
		b.WriteString(`" src="`)
		b.WriteString(EscapeAttr(img.Src))
		b.WriteString(`" alt="`)
		b.WriteString(EscapeAttr(def.Title + " image"))
		b.WriteString(`" loading="lazy"/>`)
	case imagefallback.StateUnavailable:
		b.WriteString(`<div class="fallback-image">`)
		b.WriteString(Escape(imagefallback.Unavailable))
		b.WriteString(`</div>`)
	}
	b.WriteString(`<p class="tile-text" data-fact="`)
	b.WriteString(EscapeAttr(res.Text))
	b.WriteString(`">`)
	b.WriteString(Escape(res.Text))
	b.WriteString(`</p>`)
	return b.String()
}

// Cached renders a result followed by the cached badge.
func Cached(res tile.Result, def tile.Definition) string {
	return Tile(res, def) + CachedBadge
}

// ErrorBlock renders a failure with its retry button.
func ErrorBlock(msg string) string {
	return `<div class="tile-error" role="alert">Error: ` + Escape(msg) +
		` <button type="button" class="retry-btn">Retry</button></div>`
}

func imageState(res tile.Result) imagefallback.State {
	if res.HasImage() {
		return imagefallback.StateOriginal
	}
	return imagefallback.StateNone
}
