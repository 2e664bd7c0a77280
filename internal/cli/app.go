package cli

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/theirongolddev/critters/internal/config"
	"github.com/theirongolddev/critters/internal/fetch"
	"github.com/theirongolddev/critters/internal/imagefallback"
	"github.com/theirongolddev/critters/internal/kvstore"
	"github.com/theirongolddev/critters/internal/logging"
	"github.com/theirongolddev/critters/internal/output"
	"github.com/theirongolddev/critters/internal/panel"
	"github.com/theirongolddev/critters/internal/sources"
	"github.com/theirongolddev/critters/internal/tile"
	"github.com/theirongolddev/critters/internal/tilecache"
)

const redisPingTimeout = 2 * time.Second

// app is the wired object graph shared by the commands.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	kv     kvstore.KV
	store  *tilecache.Store
	client *fetch.Client
	opts   fetch.Options
	defs   []tile.Definition

	closeLog func() error
}

// newApp opens the cache and builds the tile catalog. logOutput is used
// when the config names no log destination.
func newApp(ctx context.Context, cfg *config.Config, logOutput string) (*app, error) {
	log, closeLog := logging.New(cfg.Logging(logOutput))

	opts, err := cfg.FetchOptions()
	if err != nil {
		closeLog()
		return nil, err
	}
	backoff, err := cfg.BackoffBase()
	if err != nil {
		closeLog()
		return nil, err
	}

	kv, err := openKV(ctx, cfg.Cache, log)
	if err != nil {
		closeLog()
		return nil, output.NewCLIError("opening cache").
			WithCause(err.Error()).
			WithHint("set [cache] dir in the config, or use --cache memory")
	}

	client := fetch.NewClient(
		fetch.WithLogger(log),
		fetch.WithUserAgent(cfg.Fetch.UserAgent),
		fetch.WithBackoffBase(backoff),
	)

	return &app{
		cfg:      cfg,
		log:      log,
		kv:       kv,
		store:    tilecache.New(kv, tilecache.WithLogger(log)),
		client:   client,
		opts:     opts,
		defs:     sources.Catalog(client, cfg.Endpoints, opts),
		closeLog: closeLog,
	}, nil
}

// openKV opens the configured backend. An unreachable redis degrades to an
// in-memory store, since the cache is never required for correctness.
func openKV(ctx context.Context, cfg kvstore.Config, log zerolog.Logger) (kvstore.KV, error) {
	kv, err := kvstore.Open(cfg)
	if err != nil {
		return nil, err
	}
	r, ok := kv.(*kvstore.Redis)
	if !ok {
		return kv, nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := r.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, caching in memory")
		r.Close()
		return kvstore.NewMemory(cfg.QuotaBytes), nil
	}
	return kv, nil
}

// newPanel wires a controller and panel around r.
func (a *app) newPanel(r panel.Renderer, sink panel.StatusSink) *panel.Panel {
	timings, err := a.cfg.PanelTimings()
	if err != nil {
		timings = panel.DefaultConfig()
	}
	ctrl := panel.NewController(a.store, r,
		panel.WithConfig(timings),
		panel.WithStatus(sink),
		panel.WithLogger(a.log),
	)
	return panel.New(a.defs, ctrl)
}

func (a *app) resolver() *imagefallback.Resolver {
	return imagefallback.NewResolver(a.client, a.opts.Timeout, a.log)
}

func (a *app) Close() {
	if c, ok := a.kv.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.log.Debug().Err(err).Msg("closing cache")
		}
	}
	if a.closeLog != nil {
		a.closeLog()
	}
}

// lookup finds a tile or returns an error that lists the valid ids.
func (a *app) lookup(id string) (tile.Definition, error) {
	def, ok := tile.Find(a.defs, id)
	if !ok {
		return tile.Definition{}, output.NewCLIError("unknown tile " + id).
			WithHint("run 'critters tiles' to list tile ids")
	}
	return def, nil
}
