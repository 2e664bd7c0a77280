package config

import (
	"fmt"
	"io"
)

// Print writes cfg as a commented TOML file that Load reads back.
func Print(cfg *Config, w io.Writer) error {
	p := &printer{w: w}

	p.line("# critters configuration")
	p.line("# Durations accept Go syntax (1500ms, 2m30s) and the shorthands 30s, 5m, 1h, 1d, 1w.")
	p.line("")

	p.line("[panel]")
	p.kv("ttl", cfg.Panel.TTL, "Cached tiles older than this refresh in the foreground")
	p.kv("background_delay", cfg.Panel.BackgroundDelay, "Wait before refreshing a fresh cached tile")
	p.kv("initial_stagger", cfg.Panel.InitialStagger, "Gap between tiles on startup")
	p.kv("refresh_stagger", cfg.Panel.RefreshStagger, "Gap between tiles on refresh all")
	p.kv("status_clear", cfg.Panel.StatusClear, "How long status messages stay")
	p.kv("copy_status_clear", cfg.Panel.CopyStatusClear, "")
	p.line("")

	p.line("[fetch]")
	p.kv("timeout", cfg.Fetch.Timeout, "Per attempt")
	p.printf("retries = %d  # Extra attempts after the first\n", cfg.Fetch.Retries)
	p.kv("backoff_base", cfg.Fetch.BackoffBase, "First backoff wait, doubled per retry")
	p.kv("user_agent", cfg.Fetch.UserAgent, "")
	p.line("")

	p.line("[cache]")
	p.line("# Backends: file, memory, redis")
	p.line("# Environment variables: CRITTERS_CACHE_BACKEND, CRITTERS_REDIS_ADDR")
	p.kv("backend", cfg.Cache.Backend, "")
	p.kv("dir", cfg.Cache.Dir, "")
	p.printf("quota_bytes = %d\n", cfg.Cache.QuotaBytes)
	p.kv("redis_addr", cfg.Cache.RedisAddr, "")
	if cfg.Cache.RedisPassword != "" {
		p.kv("redis_password", cfg.Cache.RedisPassword, "")
	} else {
		p.line("# redis_password = \"\"")
	}
	p.printf("redis_db = %d\n", cfg.Cache.RedisDB)
	p.kv("redis_prefix", cfg.Cache.RedisPrefix, "")
	p.printf("redis_tls = %t\n", cfg.Cache.RedisTLS)
	p.line("")

	p.line("[endpoints]")
	p.kv("dog_ceo", cfg.Endpoints.DogCEO, "")
	p.kv("cat_fact", cfg.Endpoints.CatFact, "")
	p.kv("cat_image", cfg.Endpoints.CatImage, "")
	p.kv("animal_fact_base", cfg.Endpoints.AnimalFactBase, "Kind is appended, e.g. .../koala")
	p.kv("dog_api", cfg.Endpoints.DogAPI, "")
	p.kv("fox", cfg.Endpoints.Fox, "")
	p.line("")

	p.line("[log]")
	p.line("# Environment variable: CRITTERS_LOG_LEVEL")
	p.kv("level", cfg.Log.Level, "trace, debug, info, warn, error, off")
	p.kv("format", cfg.Log.Format, "console or json")
	if cfg.Log.Output != "" {
		p.kv("output", cfg.Log.Output, "")
	} else {
		p.line("# output = \"stderr\"  # Default: a log file in the state directory for the board, stderr otherwise")
	}
	p.line("")

	p.line("[ui]")
	p.kv("theme", cfg.UI.Theme, "auto, dark, light or plain")

	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) line(s string) {
	p.printf("%s\n", s)
}

func (p *printer) kv(key, value, comment string) {
	if comment == "" {
		p.printf("%s = %q\n", key, value)
		return
	}
	p.printf("%s = %q  # %s\n", key, value, comment)
}
