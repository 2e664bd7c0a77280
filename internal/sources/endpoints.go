package sources

import "strings"

// Endpoints lists every remote URL the adapters call.
type Endpoints struct {
	DogCEO         string `toml:"dog_ceo"`
	CatFact        string `toml:"cat_fact"`
	CatImage       string `toml:"cat_image"`
	AnimalFactBase string `toml:"animal_fact_base"`
	DogAPI         string `toml:"dog_api"`
	Fox            string `toml:"fox"`
}

// DefaultEndpoints returns the public API URLs.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		DogCEO:         "https://dog.ceo/api/breeds/image/random",
		CatFact:        "https://catfact.ninja/fact",
		CatImage:       "https://api.thecatapi.com/v1/images/search",
		AnimalFactBase: "https://some-random-api.com/animal/",
		DogAPI:         "https://api.thedogapi.com/v1/images/search",
		Fox:            "https://randomfox.ca/floof/",
	}
}

// WithDefaults fills empty fields from DefaultEndpoints.
func (e Endpoints) WithDefaults() Endpoints {
	d := DefaultEndpoints()
	if e.DogCEO == "" {
		e.DogCEO = d.DogCEO
	}
	if e.CatFact == "" {
		e.CatFact = d.CatFact
	}
	if e.CatImage == "" {
		e.CatImage = d.CatImage
	}
	if e.AnimalFactBase == "" {
		e.AnimalFactBase = d.AnimalFactBase
	}
	if e.DogAPI == "" {
		e.DogAPI = d.DogAPI
	}
	if e.Fox == "" {
		e.Fox = d.Fox
	}
	return e
}

// AnimalFact returns the fact endpoint for one animal kind.
func (e Endpoints) AnimalFact(kind string) string {
	base := e.AnimalFactBase
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + kind
}
