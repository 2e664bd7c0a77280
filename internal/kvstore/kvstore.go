// Package kvstore is the small string-keyed byte store behind the tile cache
// and preferences. Backends: in-memory, one-file-per-key on disk, and redis.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/critters/internal/logging"
)

// ErrQuotaExceeded is returned by Set when the write would grow the store
// past its byte quota.
var ErrQuotaExceeded = errors.New("kvstore: quota exceeded")

// KV is a flat key-value store. Get reports ok=false for a missing key.
// Delete of a missing key is not an error.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config selects and configures a backend.
type Config struct {
	Backend    string `toml:"backend"`
	Dir        string `toml:"dir"`
	QuotaBytes int64  `toml:"quota_bytes"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
	RedisTLS      bool   `toml:"redis_tls"`
}

// DefaultConfig stores under the state directory with a 5 MiB quota, the
// usual browser allowance for local storage.
func DefaultConfig() Config {
	return Config{
		Backend:     BackendFile,
		Dir:         DefaultDir(),
		QuotaBytes:  5 << 20,
		RedisAddr:   "localhost:6379",
		RedisPrefix: "critters:",
	}
}

// DefaultDir returns the on-disk store location.
func DefaultDir() string {
	return filepath.Join(logging.StateDir(), "store")
}

// Open builds the backend named by cfg.Backend.
func Open(cfg Config) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendFile:
		dir := cfg.Dir
		if dir == "" {
			dir = DefaultDir()
		}
		return NewFile(dir, cfg.QuotaBytes)
	case BackendMemory:
		return NewMemory(cfg.QuotaBytes), nil
	case BackendRedis:
		return NewRedis(RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
			UseTLS:   cfg.RedisTLS,
		}), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q (want file, memory or redis)", cfg.Backend)
	}
}
