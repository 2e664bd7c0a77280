package sources

import (
	"encoding/json"
	"fmt"
)

// dogCEOResponse is the dog.ceo random image payload.
type dogCEOResponse struct {
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}

// catFactResponse is the catfact.ninja payload.
type catFactResponse struct {
	Fact   string `json:"fact"`
	Length int    `json:"length,omitempty"`
}

// imageSearchItem is one element of the thecatapi/thedogapi search arrays.
type imageSearchItem struct {
	ID  string `json:"id,omitempty"`
	URL string `json:"url"`
}

// animalFactResponse is the some-random-api animal payload.
type animalFactResponse struct {
	Image string `json:"image"`
	Fact  string `json:"fact"`
}

// foxResponse is the randomfox.ca payload.
type foxResponse struct {
	Image string `json:"image"`
	Link  string `json:"link,omitempty"`
}

// decode unmarshals data into a T, naming the endpoint in the error.
func decode[T any](name string, data json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w", name, err)
	}
	return v, nil
}

// firstURL returns the url of the first search item, if any.
func firstURL(items []imageSearchItem) string {
	if len(items) == 0 {
		return ""
	}
	return items[0].URL
}
