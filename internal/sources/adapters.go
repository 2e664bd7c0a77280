// Package sources turns raw fetch results into tile results. Each tile kind
// is an adapter composed from a few reusable patterns: a single call, a
// parallel fact+image combine, a fallback chain, and a relabel.
package sources

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/critters/internal/fetch"
	"github.com/theirongolddev/critters/internal/tile"
)

// Getter performs one logical JSON request. *fetch.Client implements it.
type Getter interface {
	GetJSON(ctx context.Context, url string, opts fetch.Options) fetch.Result
}

// Extract pulls one string field out of a response body.
type Extract func(data json.RawMessage) (string, error)

// Single issues one request and maps the body to a result. A request or
// decode failure becomes the adapter error.
func Single(get Getter, opts fetch.Options, url string, mapFn func(json.RawMessage) (tile.Result, error)) tile.FetchFunc {
	return func(ctx context.Context) tile.Result {
		r := get.GetJSON(ctx, url, opts)
		if !r.OK {
			return tile.Failure(r.Err)
		}
		res, err := mapFn(r.Data)
		if err != nil {
			return tile.Failure(err.Error())
		}
		return res
	}
}

// Endpoint is one URL together with the field extracted from its body.
type Endpoint struct {
	URL     string
	Extract Extract
}

// ParallelCombine requests the fact and the image concurrently. A fact
// failure fails the adapter even if the image succeeded; an image failure
// or unexpected image shape only drops the image.
func ParallelCombine(get Getter, opts fetch.Options, fact, image Endpoint) tile.FetchFunc {
	return func(ctx context.Context) tile.Result {
		var factRes, imageRes fetch.Result

		var g errgroup.Group
		g.Go(func() error {
			factRes = get.GetJSON(ctx, fact.URL, opts)
			return nil
		})
		g.Go(func() error {
			imageRes = get.GetJSON(ctx, image.URL, opts)
			return nil
		})
		_ = g.Wait()

		if !factRes.OK {
			return tile.Failure(factRes.Err)
		}
		text, err := fact.Extract(factRes.Data)
		if err != nil {
			return tile.Failure(err.Error())
		}

		var imageURL string
		if imageRes.OK {
			if u, err := image.Extract(imageRes.Data); err == nil {
				imageURL = u
			}
		}
		return tile.Success(imageURL, text)
	}
}

// Fallback is one step of a fallback chain: where to ask and the fixed text
// shown when that step supplies the image.
type Fallback struct {
	Endpoint
	Text string
}

// FallbackChain tries preferred, then alternate. The preferred step only
// counts when it yields a non-empty field. When both fail the error is the
// preferred request's, else the alternate's, else lastResort.
func FallbackChain(get Getter, opts fetch.Options, preferred, alternate Fallback, lastResort string) tile.FetchFunc {
	return func(ctx context.Context) tile.Result {
		var preferredErr string
		r := get.GetJSON(ctx, preferred.URL, opts)
		if r.OK {
			if u, err := preferred.Extract(r.Data); err == nil && u != "" {
				return tile.Success(u, preferred.Text)
			}
		} else {
			preferredErr = r.Err
		}

		var alternateErr string
		r = get.GetJSON(ctx, alternate.URL, opts)
		if r.OK {
			u, err := alternate.Extract(r.Data)
			if err == nil {
				return tile.Success(u, alternate.Text)
			}
			alternateErr = err.Error()
		} else {
			alternateErr = r.Err
		}

		switch {
		case preferredErr != "":
			return tile.Failure(preferredErr)
		case alternateErr != "":
			return tile.Failure(alternateErr)
		default:
			return tile.Failure(lastResort)
		}
	}
}

// Relabel rewrites the text of a successful result. Failures pass through.
func Relabel(fn tile.FetchFunc, label func(text string) string) tile.FetchFunc {
	return func(ctx context.Context) tile.Result {
		res := fn(ctx)
		if res.Failed() {
			return res
		}
		res.Text = label(res.Text)
		return res
	}
}

// Field extractors for the known payloads.

func dogCEOImage(data json.RawMessage) (string, error) {
	v, err := decode[dogCEOResponse]("dog.ceo", data)
	return v.Message, err
}

func catFactText(data json.RawMessage) (string, error) {
	v, err := decode[catFactResponse]("catfact", data)
	return v.Fact, err
}

func searchImage(name string) Extract {
	return func(data json.RawMessage) (string, error) {
		v, err := decode[[]imageSearchItem](name, data)
		return firstURL(v), err
	}
}

func foxImage(data json.RawMessage) (string, error) {
	v, err := decode[foxResponse]("randomfox", data)
	return v.Image, err
}

func animalFact(data json.RawMessage) (tile.Result, error) {
	v, err := decode[animalFactResponse]("animal fact", data)
	if err != nil {
		return tile.Result{}, err
	}
	return tile.Success(v.Image, v.Fact), nil
}

// fixedText maps an image extractor to a result with constant text.
func fixedText(extract Extract, text string) func(json.RawMessage) (tile.Result, error) {
	return func(data json.RawMessage) (tile.Result, error) {
		u, err := extract(data)
		if err != nil {
			return tile.Result{}, err
		}
		return tile.Success(u, text), nil
	}
}
