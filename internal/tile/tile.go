// Package tile defines the tile definitions and results shared by the fetch,
// cache and panel layers.
package tile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// DeprecatedIDs are tiles that were removed from the panel. Their cache
// entries are dropped on startup even if a tile with the same id returns.
var DeprecatedIDs = []string{"duck", "shibe", "zoo"}

// Result is the normalized outcome of a source adapter: either a usable
// image/text pair or an error. It is never both.
type Result struct {
	Image string // empty means no image
	Text  string
	Err   string
}

// Success builds a usable result. An empty image is allowed.
func Success(image, text string) Result {
	return Result{Image: image, Text: text}
}

// Failure builds an error result.
func Failure(msg string) Result {
	if msg == "" {
		msg = "unknown error"
	}
	return Result{Err: msg}
}

// Failed reports whether the result is in the error state.
func (r Result) Failed() bool {
	return r.Err != ""
}

// HasImage reports whether the result carries an image URL.
func (r Result) HasImage() bool {
	return !r.Failed() && r.Image != ""
}

type successJSON struct {
	Image *string `json:"image"`
	Text  string  `json:"text"`
}

type failureJSON struct {
	Error string `json:"error"`
}

// MarshalJSON writes {"image":...,"text":...} or {"error":...}.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(failureJSON{Error: r.Err})
	}
	out := successJSON{Text: r.Text}
	if r.Image != "" {
		img := r.Image
		out.Image = &img
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts both result shapes. Fields of the wrong type are
// treated as absent rather than failing the whole value.
func (r *Result) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return fmt.Errorf("tile result: expected object")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("tile result: %w", err)
	}

	*r = Result{}
	if v, ok := raw["error"]; ok {
		var msg string
		if json.Unmarshal(v, &msg) == nil && msg != "" {
			r.Err = msg
			return nil
		}
	}
	if v, ok := raw["image"]; ok {
		var img string
		if json.Unmarshal(v, &img) == nil {
			r.Image = img
		}
	}
	if v, ok := raw["text"]; ok {
		var text string
		if json.Unmarshal(v, &text) == nil {
			r.Text = text
		}
	}
	return nil
}

// FetchFunc produces a tile result. Implementations must not panic and
// must report every failure through Result.Err.
type FetchFunc func(ctx context.Context) Result

// Definition is a tile known at startup.
type Definition struct {
	ID    string
	Title string
	Fetch FetchFunc
}

// IDs returns the ids of defs in order.
func IDs(defs []Definition) []string {
	ids := make([]string, 0, len(defs))
	for _, d := range defs {
		ids = append(ids, d.ID)
	}
	return ids
}

// Find returns the definition with the given id.
func Find(defs []Definition, id string) (Definition, bool) {
	for _, d := range defs {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}
