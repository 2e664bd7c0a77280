package markup

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"sync"
	"time"

	"github.com/theirongolddev/critters/internal/imagefallback"
	"github.com/theirongolddev/critters/internal/panel"
	"github.com/theirongolddev/critters/internal/tile"
)

type bodyState int

const (
	bodyIdle bodyState = iota
	bodyLoading
	bodyShown
	bodyFailed
)

type tileBody struct {
	state   bodyState
	view    panel.View
	message string
	image   *imagefallback.Image
}

// Snapshot is a Renderer that keeps the latest body of every tile so the
// panel can be written out as a static HTML page.
type Snapshot struct {
	mu     sync.Mutex
	defs   []tile.Definition
	bodies map[string]*tileBody
	status string
}

// NewSnapshot tracks the given tiles. Calls for other ids are ignored.
func NewSnapshot(defs []tile.Definition) *Snapshot {
	s := &Snapshot{defs: defs, bodies: make(map[string]*tileBody, len(defs))}
	for _, d := range defs {
		s.bodies[d.ID] = &tileBody{}
	}
	return s
}

// Loading implements panel.Renderer.
func (s *Snapshot) Loading(id string) {
	s.update(id, func(b *tileBody) { *b = tileBody{state: bodyLoading} })
}

// Show implements panel.Renderer.
func (s *Snapshot) Show(id string, v panel.View) {
	s.update(id, func(b *tileBody) { *b = tileBody{state: bodyShown, view: v} })
}

// Fail implements panel.Renderer.
func (s *Snapshot) Fail(id string, f panel.Failure) {
	s.update(id, func(b *tileBody) { *b = tileBody{state: bodyFailed, message: f.Message} })
}

// SetStatus records the status line. It satisfies panel.StatusSink.
func (s *Snapshot) SetStatus(msg string) {
	s.mu.Lock()
	s.status = msg
	s.mu.Unlock()
}

func (s *Snapshot) update(id string, fn func(*tileBody)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.bodies[id]; ok {
		fn(b)
	}
}

// ApplyImages resolves the image of every shown tile through r.
func (s *Snapshot) ApplyImages(ctx context.Context, r *imagefallback.Resolver) {
	type job struct{ id, url string }
	var jobs []job
	s.mu.Lock()
	for _, d := range s.defs {
		b := s.bodies[d.ID]
		if b.state == bodyShown && b.view.Result.HasImage() {
			jobs = append(jobs, job{d.ID, b.view.Result.Image})
		}
	}
	s.mu.Unlock()

	for _, j := range jobs {
		img := r.Resolve(ctx, j.id, j.url)
		s.update(j.id, func(b *tileBody) {
			if b.state == bodyShown && b.view.Result.Image == j.url {
				b.image = &img
			}
		})
	}
}

// Body returns the current markup of a tile body.
func (s *Snapshot) Body(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bodies[id]
	if !ok {
		return ""
	}
	def, _ := tile.Find(s.defs, id)
	return renderBody(b, def)
}

func renderBody(b *tileBody, def tile.Definition) string {
	switch b.state {
	case bodyLoading:
		return LoadingBlock
	case bodyFailed:
		return ErrorBlock(b.message)
	case bodyShown:
		var out string
		if b.image != nil {
			out = TileWithImage(b.view.Result, def, *b.image)
		} else {
			out = Tile(b.view.Result, def)
		}
		if b.view.Cached {
			out += CachedBadge
		}
		if b.view.Stale {
			out += StaleBadge()
		}
		return out
	default:
		return ""
	}
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
.animal-grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(260px,1fr));gap:1rem;font-family:sans-serif}
.animal-tile{border:1px solid #ccc;border-radius:8px;padding:.75rem}
.animal-img{max-width:100%;border-radius:4px}
.cached-badge,.stale-badge{display:inline-block;font-size:.75rem;padding:0 .4rem;border-radius:4px;margin-right:.25rem}
.cached-badge{background:#e0e7ff}.stale-badge{background:#fde68a}
.tile-error{color:#b91c1c}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div id="api-status" class="api-status">{{.Status}}</div>
<div class="animal-grid">
{{- range .Tiles}}
<div class="animal-tile" id="tile-{{.ID}}" data-tile="{{.ID}}">
<div class="tile-head"><h2>{{.Title}}</h2><button type="button" class="refresh-btn" title="Refresh {{.Title}}">↻</button><button type="button" class="copy-btn" title="Copy fact">⧉</button></div>
<div class="tile-body">{{.Body}}</div>
</div>
{{- end}}
</div>
<footer>Generated {{.Generated}}</footer>
</body>
</html>
`))

type pageTile struct {
	ID    string
	Title string
	Body  template.HTML
}

// WriteHTML writes the whole panel as a standalone page.
func (s *Snapshot) WriteHTML(w io.Writer, title string, generated time.Time) error {
	s.mu.Lock()
	tiles := make([]pageTile, 0, len(s.defs))
	for _, d := range s.defs {
		// Bodies are built from escaped fragments only.
		tiles = append(tiles, pageTile{ID: d.ID, Title: d.Title, Body: template.HTML(renderBody(s.bodies[d.ID], d))})
	}
	status := s.status
	s.mu.Unlock()

	err := pageTemplate.Execute(w, struct {
		Title     string
		Status    string
		Tiles     []pageTile
		Generated string
	}{
		Title:     title,
		Status:    status,
		Tiles:     tiles,
		Generated: generated.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("rendering snapshot: %w", err)
	}
	return nil
}
