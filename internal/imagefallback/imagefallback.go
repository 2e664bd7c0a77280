// Package imagefallback decides which image a tile actually displays: the
// original, a per-tile placeholder when the original does not load, or a
// text notice when neither does.
package imagefallback

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/theirongolddev/critters/internal/fetch"
)

// Unavailable is shown instead of an image when both tiers fail.
const Unavailable = "Image unavailable"

const placeholderBase = "https://placehold.co/300x200?text="

var placeholderText = map[string]string{
	"kangaroo": "Kangaroo",
	"redpanda": "Red+Panda",
	"shiba":    "Dog",
	"fox":      "Fox",
	"panda":    "Panda",
	"koala":    "Koala",
	"bird":     "Bird",
	"dog":      "Dog",
	"catfact":  "Cat",
}

// Placeholder returns the fallback image for a tile id. Unknown ids get a
// generic one.
func Placeholder(tileID string) string {
	text, ok := placeholderText[tileID]
	if !ok {
		text = "Animal"
	}
	return placeholderBase + text
}

// State says which tier an Image came from.
type State int

const (
	StateNone State = iota // no image in the result
	StateOriginal
	StatePlaceholder
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateOriginal:
		return "original"
	case StatePlaceholder:
		return "placeholder"
	case StateUnavailable:
		return "unavailable"
	default:
		return "none"
	}
}

// Image is a resolved image. Src is empty unless State is StateOriginal or
// StatePlaceholder.
type Image struct {
	Src   string
	State State
}

// Prober checks that a URL loads. *fetch.Client implements it.
type Prober interface {
	Probe(ctx context.Context, url string, opts fetch.Options) error
}

// Resolver runs the two-tier fallback.
type Resolver struct {
	prober Prober
	opts   fetch.Options
	log    zerolog.Logger
}

// NewResolver returns a Resolver whose probes make a single attempt bounded
// by timeout.
func NewResolver(p Prober, timeout time.Duration, log zerolog.Logger) *Resolver {
	return &Resolver{prober: p, opts: fetch.Options{Timeout: timeout, Retries: 0}, log: log}
}

// Resolve picks the image to show for url on the given tile.
func (r *Resolver) Resolve(ctx context.Context, tileID, url string) Image {
	if url == "" {
		return Image{State: StateNone}
	}
	err := r.prober.Probe(ctx, url, r.opts)
	if err == nil {
		return Image{Src: url, State: StateOriginal}
	}
	r.log.Debug().Str("tile", tileID).Str("url", url).Err(err).Msg("image failed, trying placeholder")

	ph := Placeholder(tileID)
	if err := r.prober.Probe(ctx, ph, r.opts); err == nil {
		return Image{Src: ph, State: StatePlaceholder}
	}
	return Image{State: StateUnavailable}
}
