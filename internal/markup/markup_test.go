package markup

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/critters/internal/fetch"
	"github.com/theirongolddev/critters/internal/imagefallback"
	"github.com/theirongolddev/critters/internal/logging"
	"github.com/theirongolddev/critters/internal/panel"
	"github.com/theirongolddev/critters/internal/tile"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{`<script>alert("x")</script>`, "&lt;script&gt;alert(&quot;x&quot;)&lt;/script&gt;"},
		{"Tom & Jerry's", "Tom &amp; Jerry&#39;s"},
		{"&amp;", "&amp;amp;"},
	}
	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if got := EscapeAttr(tt.in); got != tt.want {
			t.Errorf("EscapeAttr(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTileMarkup(t *testing.T) {
	def := tile.Definition{ID: "dog", Title: "Random Dog"}

	got := Tile(tile.Success("https://x/a.png", "Dog CEO API"), def)
	want := `<img class="animal-img" data-tile="dog" src="https://x/a.png" alt="Random Dog image" loading="lazy"/>` +
		`<p class="tile-text" data-fact="Dog CEO API">Dog CEO API</p>`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}

	noImage := Tile(tile.Success("", "just text"), def)
	if strings.Contains(noImage, "<img") {
		t.Errorf("null image rendered an img: %s", noImage)
	}
}

func TestTileEscapesRemoteContent(t *testing.T) {
	def := tile.Definition{ID: `x"y`, Title: "<b>T</b>"}
	res := tile.Success(`https://x/a.png" onerror="alert(1)`, `<img src=x onerror=alert(1)>`)

	got := Tile(res, def)
	for _, bad := range []string{`onerror="alert`, "<img src=x", "<b>"} {
		if strings.Contains(got, bad) {
			t.Errorf("unescaped %q in %s", bad, got)
		}
	}
	if !strings.Contains(got, "&lt;img src=x onerror=alert(1)&gt;") {
		t.Errorf("fact text not escaped: %s", got)
	}
}

func TestBadgesAndErrorBlock(t *testing.T) {
	def := tile.Definition{ID: "fox", Title: "Random Fox"}
	if got := Cached(tile.Success("", "f"), def); !strings.HasSuffix(got, CachedBadge) {
		t.Errorf("Cached missing badge: %s", got)
	}
	if !strings.Contains(StaleBadge(), ">Stale<") {
		t.Errorf("StaleBadge = %s", StaleBadge())
	}
	got := ErrorBlock(`HTTP <500>`)
	if !strings.Contains(got, "Error: HTTP &lt;500&gt;") || !strings.Contains(got, `class="retry-btn"`) {
		t.Errorf("ErrorBlock = %s", got)
	}
}

func TestTileWithResolvedImage(t *testing.T) {
	def := tile.Definition{ID: "koala", Title: "Koala Fact"}
	res := tile.Success("https://broken/k.jpg", "Koalas sleep.")

	ph := TileWithImage(res, def, imagefallback.Image{Src: imagefallback.Placeholder("koala"), State: imagefallback.StatePlaceholder})
	if !strings.Contains(ph, `src="https://placehold.co/300x200?text=Koala"`) {
		t.Errorf("placeholder not used: %s", ph)
	}

	gone := TileWithImage(res, def, imagefallback.Image{State: imagefallback.StateUnavailable})
	if strings.Contains(gone, "<img") || !strings.Contains(gone, "Image unavailable") {
		t.Errorf("unavailable image rendered wrong: %s", gone)
	}
}

func TestSnapshotRenderer(t *testing.T) {
	defs := []tile.Definition{{ID: "dog", Title: "Random Dog"}, {ID: "fox", Title: "Random Fox"}, {ID: "bird", Title: "Bird Fact"}}
	s := NewSnapshot(defs)
	var _ panel.Renderer = s

	s.Loading("dog")
	if s.Body("dog") != LoadingBlock {
		t.Errorf("loading body = %s", s.Body("dog"))
	}
	s.Show("dog", panel.View{Result: tile.Success("", "woof"), Cached: true, Stale: true})
	body := s.Body("dog")
	if !strings.Contains(body, "woof") || !strings.Contains(body, CachedBadge) || !strings.Contains(body, StaleBadge()) {
		t.Errorf("stale body = %s", body)
	}
	s.Show("dog", panel.View{Result: tile.Success("", "fresh")})
	if body := s.Body("dog"); strings.Contains(body, CachedBadge) {
		t.Errorf("fresh body kept badge: %s", body)
	}

	s.Fail("fox", panel.Failure{Message: "HTTP 500"})
	if !strings.Contains(s.Body("fox"), "Error: HTTP 500") {
		t.Errorf("fox body = %s", s.Body("fox"))
	}

	s.Show("unknown", panel.View{Result: tile.Success("", "x")})
	if s.Body("unknown") != "" {
		t.Error("unknown id should be ignored")
	}
	if s.Body("bird") != "" {
		t.Error("untouched tile should be empty")
	}
}

type prober map[string]bool

func (p prober) Probe(_ context.Context, url string, _ fetch.Options) error {
	if p[url] {
		return nil
	}
	return errors.New("HTTP 404")
}

func TestSnapshotApplyImagesAndWrite(t *testing.T) {
	defs := []tile.Definition{{ID: "dog", Title: "Random Dog"}, {ID: "koala", Title: "Koala <Fact>"}}
	s := NewSnapshot(defs)
	s.Show("dog", panel.View{Result: tile.Success("https://ok/dog.jpg", "Dog CEO API")})
	s.Show("koala", panel.View{Result: tile.Success("https://bad/k.jpg", "Koalas & eucalyptus")})
	s.SetStatus("Updated Random Dog")

	r := imagefallback.NewResolver(prober{"https://ok/dog.jpg": true}, time.Second, logging.Nop)
	s.ApplyImages(context.Background(), r)

	if !strings.Contains(s.Body("dog"), `src="https://ok/dog.jpg"`) {
		t.Errorf("dog body = %s", s.Body("dog"))
	}
	if !strings.Contains(s.Body("koala"), "Image unavailable") {
		t.Errorf("koala body = %s", s.Body("koala"))
	}

	var buf bytes.Buffer
	if err := s.WriteHTML(&buf, "Animal Tiles", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)); err != nil {
		t.Fatal(err)
	}
	page := buf.String()
	for _, want := range []string{
		`id="tile-dog"`,
		"<h2>Koala &lt;Fact&gt;</h2>",
		"Koalas &amp; eucalyptus",
		"Updated Random Dog",
		"2024-05-01T12:00:00Z",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}
