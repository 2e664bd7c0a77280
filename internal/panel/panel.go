package panel

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/critters/internal/tile"
)

// Status line messages.
const (
	MsgRefreshingAll = "Refreshing all…"
	MsgAllRefreshed  = "All refreshed"
	MsgCacheCleared  = "Cache cleared"
	MsgCopied        = "Copied fact"
	MsgCopyFailed    = "Copy failed"
)

// Panel coordinates passes over every tile.
type Panel struct {
	defs []tile.Definition
	ctrl *Controller
	log  zerolog.Logger

	refreshing atomic.Bool
}

// New returns a Panel over defs in display order.
func New(defs []tile.Definition, ctrl *Controller) *Panel {
	return &Panel{defs: defs, ctrl: ctrl, log: ctrl.log}
}

// Definitions returns the tiles in display order.
func (p *Panel) Definitions() []tile.Definition { return p.defs }

// Controller returns the tile controller.
func (p *Panel) Controller() *Controller { return p.ctrl }

// Lookup finds a tile by id.
func (p *Panel) Lookup(id string) (tile.Definition, bool) {
	return tile.Find(p.defs, id)
}

// Migrate drops the cache keys of retired tiles.
func (p *Panel) Migrate(ctx context.Context) {
	p.ctrl.store.RemoveDeprecated(ctx)
}

// Start drops deprecated cache keys, marks every tile loading, then loads
// each tile cache-first, one at a time. It stops early once ctx ends.
func (p *Panel) Start(ctx context.Context) {
	log := p.passLogger("start")
	p.Migrate(ctx)

	for _, def := range p.defs {
		p.ctrl.render.Loading(def.ID)
	}

	stagger := p.ctrl.Config().InitialStagger
	for _, def := range p.defs {
		if ctx.Err() != nil {
			log.Debug().Msg("start pass cancelled")
			return
		}
		p.ctrl.Load(ctx, def, true)
		if !p.sleep(ctx, stagger) {
			log.Debug().Msg("start pass cancelled")
			return
		}
	}
	log.Debug().Int("tiles", len(p.defs)).Msg("start pass done")
}

// RefreshAll reloads every tile bypassing the cache. It returns false
// without doing anything if a refresh-all pass is already running.
func (p *Panel) RefreshAll(ctx context.Context) bool {
	if !p.refreshing.CompareAndSwap(false, true) {
		return false
	}
	defer p.refreshing.Store(false)

	log := p.passLogger("refresh-all")
	cfg := p.ctrl.Config()
	p.ctrl.status.Set(MsgRefreshingAll)

	for _, def := range p.defs {
		if ctx.Err() != nil {
			break
		}
		p.ctrl.Load(ctx, def, false)
		if !p.sleep(ctx, cfg.RefreshStagger) {
			break
		}
	}
	if ctx.Err() != nil {
		p.ctrl.status.Set("")
		log.Debug().Msg("refresh-all pass cancelled")
		return true
	}

	p.ctrl.status.Flash(MsgAllRefreshed, cfg.StatusClear)
	log.Debug().Int("tiles", len(p.defs)).Msg("refresh-all pass done")
	return true
}

// Busy reports whether a refresh-all pass is running.
func (p *Panel) Busy() bool {
	return p.refreshing.Load()
}

// Refresh reloads one tile, cache-first. Unknown ids are ignored.
func (p *Panel) Refresh(ctx context.Context, id string) bool {
	def, ok := p.Lookup(id)
	if !ok {
		return false
	}
	p.ctrl.Load(ctx, def, true)
	return true
}

// ClearCache evicts every known tile. What is on screen stays.
func (p *Panel) ClearCache(ctx context.Context) {
	p.ctrl.store.EvictAll(ctx, tile.IDs(p.defs))
	p.ctrl.status.Flash(MsgCacheCleared, p.ctrl.Config().StatusClear)
}

// ReportCopy flashes the outcome of a copy-to-clipboard action.
func (p *Panel) ReportCopy(err error) {
	msg := MsgCopied
	if err != nil {
		msg = MsgCopyFailed
		p.log.Debug().Err(err).Msg("copy failed")
	}
	p.ctrl.status.Flash(msg, p.ctrl.Config().CopyStatusClear)
}

func (p *Panel) passLogger(kind string) zerolog.Logger {
	return p.log.With().Str("pass", uuid.NewString()).Str("kind", kind).Logger()
}

// sleep waits d on the controller clock and reports whether ctx is still live.
func (p *Panel) sleep(ctx context.Context, d time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case <-p.ctrl.clock.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
