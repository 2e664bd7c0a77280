package kvstore

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the redis backend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	UseTLS   bool
	// OpTimeout bounds each command. Zero means 2s.
	OpTimeout time.Duration
}

// Redis stores keys in a redis database under an optional prefix. Values
// carry no expiry; freshness is decided by the reader.
type Redis struct {
	client    *redis.Client
	prefix    string
	opTimeout time.Duration
}

// NewRedis connects lazily; the first command dials.
func NewRedis(opts RedisOptions) *Redis {
	ro := &redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}
	if opts.UseTLS {
		ro.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	timeout := opts.OpTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Redis{client: redis.NewClient(ro), prefix: opts.Prefix, opTimeout: timeout}
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()
	return r.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Get implements KV.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return val, true, nil
}

// Set implements KV.
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		if isOOM(err) {
			return ErrQuotaExceeded
		}
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Delete implements KV.
func (r *Redis) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

// Keys implements KV using SCAN. The result is sorted and unprefixed.
func (r *Redis) Keys(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	var keys []string
	iter := r.client.Scan(ctx, 0, scanPattern(r.prefix+prefix), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), r.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// scanPattern escapes glob metacharacters in a literal prefix.
func scanPattern(prefix string) string {
	var b strings.Builder
	for _, c := range prefix {
		switch c {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	b.WriteByte('*')
	return b.String()
}

// isOOM reports redis refusing a write because maxmemory was reached.
func isOOM(err error) bool {
	return strings.HasPrefix(err.Error(), "OOM ")
}
