// Package panel runs the tile lifecycle: cache-first display, stale and
// background refreshes, retries, and the orchestration passes over all
// tiles. Rendering is delegated to a Renderer.
package panel

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/theirongolddev/critters/internal/clock"
	"github.com/theirongolddev/critters/internal/logging"
	"github.com/theirongolddev/critters/internal/tile"
	"github.com/theirongolddev/critters/internal/tilecache"
)

// Config holds the lifecycle timings.
type Config struct {
	TTL             time.Duration
	BackgroundDelay time.Duration
	StatusClear     time.Duration
	CopyStatusClear time.Duration
	InitialStagger  time.Duration
	RefreshStagger  time.Duration
}

// DefaultConfig returns the standard timings.
func DefaultConfig() Config {
	return Config{
		TTL:             5 * time.Minute,
		BackgroundDelay: 200 * time.Millisecond,
		StatusClear:     1500 * time.Millisecond,
		CopyStatusClear: 1200 * time.Millisecond,
		InitialStagger:  120 * time.Millisecond,
		RefreshStagger:  80 * time.Millisecond,
	}
}

type refreshMode int

const (
	background refreshMode = iota
	foreground
)

func (m refreshMode) String() string {
	if m == foreground {
		return "foreground"
	}
	return "background"
}

// Controller loads single tiles.
type Controller struct {
	store  *tilecache.Store
	render Renderer
	status *Status
	clock  clock.Clock
	log    zerolog.Logger

	mu  sync.RWMutex
	cfg Config

	wg sync.WaitGroup
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithConfig sets the timings.
func WithConfig(cfg Config) ControllerOption {
	return func(c *Controller) { c.cfg = cfg }
}

// WithClock sets the clock for delays and freshness.
func WithClock(clk clock.Clock) ControllerOption {
	return func(c *Controller) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithStatus sets the status line sink.
func WithStatus(sink StatusSink) ControllerOption {
	return func(c *Controller) { c.status = NewStatus(sink, nil) }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) ControllerOption {
	return func(c *Controller) { c.log = log }
}

// NewController builds a Controller rendering into r.
func NewController(store *tilecache.Store, r Renderer, opts ...ControllerOption) *Controller {
	c := &Controller{
		store:  store,
		render: r,
		clock:  clock.Real{},
		log:    logging.Nop,
		cfg:    DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.status == nil {
		c.status = NewStatus(nil, c.clock)
	} else {
		c.status.clock = c.clock
	}
	return c
}

// Config returns the current timings.
func (c *Controller) Config() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

// SetConfig replaces the timings. Loads already in flight keep the old ones.
func (c *Controller) SetConfig(cfg Config) {
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
}

// Status returns the shared status line.
func (c *Controller) Status() *Status { return c.status }

// Store returns the cache.
func (c *Controller) Store() *tilecache.Store { return c.store }

// Renderer returns the renderer.
func (c *Controller) Renderer() Renderer { return c.render }

// Load shows def. With useCache a cached entry is shown right away and
// refreshed asynchronously; otherwise def is fetched and the outcome shown.
func (c *Controller) Load(ctx context.Context, def tile.Definition, useCache bool) {
	c.render.Loading(def.ID)

	if useCache {
		if entry, ok := c.store.Read(ctx, def.ID); ok {
			cfg := c.Config()
			now := c.clock.Now()
			action := Decide(&entry, now, cfg.TTL)
			c.render.Show(def.ID, View{
				Result: entry.Data,
				Cached: true,
				Stale:  action == ShowCachedThenForegroundRefresh,
				Age:    entry.Age(now),
			})
			c.log.Debug().Str("tile", def.ID).Stringer("action", action).Msg("cache hit")

			if action == ShowCachedThenForegroundRefresh {
				c.spawn(func() { c.refresh(ctx, def, foreground) })
				return
			}
			c.spawn(func() {
				select {
				case <-c.clock.After(cfg.BackgroundDelay):
				case <-ctx.Done():
					return
				}
				c.refresh(ctx, def, background)
			})
			return
		}
	}

	res := def.Fetch(ctx)
	if res.Failed() {
		c.fail(ctx, def, res.Err)
		return
	}
	c.render.Show(def.ID, View{Result: res})
	c.store.Write(ctx, def.ID, res)
}

// Wait blocks until every spawned refresh and status clear has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
	c.status.Wait()
}

func (c *Controller) refresh(ctx context.Context, def tile.Definition, mode refreshMode) {
	res := def.Fetch(ctx)
	if res.Failed() {
		if mode == foreground {
			c.fail(ctx, def, res.Err)
			return
		}
		c.log.Debug().Str("tile", def.ID).Str("error", res.Err).Msg("background refresh failed, keeping cached view")
		return
	}
	c.render.Show(def.ID, View{Result: res})
	c.store.Write(ctx, def.ID, res)
	c.status.Flash("Updated "+def.Title, c.Config().StatusClear)
	c.log.Debug().Str("tile", def.ID).Stringer("mode", mode).Msg("refreshed")
}

func (c *Controller) fail(ctx context.Context, def tile.Definition, msg string) {
	c.log.Info().Str("tile", def.ID).Str("error", msg).Msg("tile load failed")
	c.render.Fail(def.ID, Failure{
		Message: msg,
		Retry:   func() { c.Load(ctx, def, true) },
	})
}

func (c *Controller) spawn(fn func()) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn()
	}()
}
