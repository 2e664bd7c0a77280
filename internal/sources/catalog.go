package sources

import (
	"github.com/theirongolddev/critters/internal/fetch"
	"github.com/theirongolddev/critters/internal/tile"
)

// Fixed texts shown for image-only tiles.
const (
	DogText         = "Dog CEO API"
	ShibaText       = "Random Dog (Shiba-ish)"
	ShibaFallback   = "Dog CEO fallback"
	ShibaLastResort = "Dog fetch failed"
	FoxText         = "Floofy fox"
	RedPandaPrefix  = "Red Panda (panda fact proxy): "
)

// Catalog returns the panel's tiles in display order.
func Catalog(get Getter, ep Endpoints, opts fetch.Options) []tile.Definition {
	ep = ep.WithDefaults()

	animal := func(kind string) tile.FetchFunc {
		return Single(get, opts, ep.AnimalFact(kind), animalFact)
	}

	return []tile.Definition{
		{
			ID:    "dog",
			Title: "Random Dog",
			Fetch: Single(get, opts, ep.DogCEO, fixedText(dogCEOImage, DogText)),
		},
		{
			ID:    "catfact",
			Title: "Cat Fact + Image",
			Fetch: ParallelCombine(get, opts,
				Endpoint{URL: ep.CatFact, Extract: catFactText},
				Endpoint{URL: ep.CatImage, Extract: searchImage("thecatapi")},
			),
		},
		{
			ID:    "kangaroo",
			Title: "Kangaroo Fact",
			Fetch: animal("kangaroo"),
		},
		{
			ID:    "shiba",
			Title: "Shiba Dog",
			Fetch: FallbackChain(get, opts,
				Fallback{Endpoint: Endpoint{URL: ep.DogAPI, Extract: searchImage("thedogapi")}, Text: ShibaText},
				Fallback{Endpoint: Endpoint{URL: ep.DogCEO, Extract: dogCEOImage}, Text: ShibaFallback},
				ShibaLastResort,
			),
		},
		{
			ID:    "redpanda",
			Title: "Red Panda Fact",
			Fetch: Relabel(animal("panda"), func(text string) string {
				return RedPandaPrefix + text
			}),
		},
		{
			ID:    "fox",
			Title: "Random Fox",
			Fetch: Single(get, opts, ep.Fox, fixedText(foxImage, FoxText)),
		},
		{
			ID:    "panda",
			Title: "Panda Fact",
			Fetch: animal("panda"),
		},
		{
			ID:    "koala",
			Title: "Koala Fact",
			Fetch: animal("koala"),
		},
		{
			ID:    "bird",
			Title: "Bird Fact",
			Fetch: animal("bird"),
		},
	}
}
