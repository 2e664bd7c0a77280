// Package tilecache persists the last good result of each tile with a
// timestamp. Caching is best effort: every storage or encoding failure is
// logged and then treated as a missing entry.
package tilecache

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/theirongolddev/critters/internal/clock"
	"github.com/theirongolddev/critters/internal/kvstore"
	"github.com/theirongolddev/critters/internal/logging"
	"github.com/theirongolddev/critters/internal/tile"
)

// KeyPrefix prefixes every tile cache key.
const KeyPrefix = "animal-tile-"

// Infinite is the age reported for legacy entries, which carry no timestamp.
const Infinite = time.Duration(math.MaxInt64)

// Key returns the storage key for a tile id.
func Key(id string) string {
	return KeyPrefix + id
}

// Entry is a normalized cache read.
type Entry struct {
	Timestamp time.Time
	Legacy    bool
	Data      tile.Result
}

// Age returns how old the entry is at now. Legacy entries are infinitely old.
func (e Entry) Age(now time.Time) time.Duration {
	if e.Legacy {
		return Infinite
	}
	return now.Sub(e.Timestamp)
}

// wrapped is the stored shape.
type wrapped struct {
	TS   int64       `json:"ts"`
	Data tile.Result `json:"data"`
}

// Store reads and writes tile entries in a KV.
type Store struct {
	kv    kvstore.KV
	clock clock.Clock
	log   zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for timestamps.
func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the logger for swallowed errors.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// New returns a Store over kv.
func New(kv kvstore.KV, opts ...Option) *Store {
	s := &Store{kv: kv, clock: clock.Real{}, log: logging.Nop}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// KV returns the backing store.
func (s *Store) KV() kvstore.KV { return s.kv }

// Now returns the store's current time.
func (s *Store) Now() time.Time { return s.clock.Now() }

// Read returns the entry for id. A missing, corrupt or unrecognized value
// reports false, as does a stored failure.
func (s *Store) Read(ctx context.Context, id string) (Entry, bool) {
	raw, ok, err := s.kv.Get(ctx, Key(id))
	if err != nil {
		s.log.Warn().Err(err).Str("tile", id).Msg("cache read failed")
		return Entry{}, false
	}
	if !ok {
		return Entry{}, false
	}

	entry, err := decodeEntry(raw)
	if err != nil {
		s.log.Debug().Err(err).Str("tile", id).Msg("ignoring unreadable cache value")
		return Entry{}, false
	}
	if entry.Data.Failed() {
		return Entry{}, false
	}
	return entry, true
}

// Write stores res stamped with the current time. Failed results are not
// stored.
func (s *Store) Write(ctx context.Context, id string, res tile.Result) {
	if res.Failed() {
		return
	}
	data, err := json.Marshal(wrapped{TS: s.clock.Now().UnixMilli(), Data: res})
	if err != nil {
		s.log.Warn().Err(err).Str("tile", id).Msg("cache encode failed")
		return
	}
	if err := s.kv.Set(ctx, Key(id), data); err != nil {
		s.log.Warn().Err(err).Str("tile", id).Msg("cache write failed")
	}
}

// Evict removes the entry for id.
func (s *Store) Evict(ctx context.Context, id string) {
	if err := s.kv.Delete(ctx, Key(id)); err != nil {
		s.log.Warn().Err(err).Str("tile", id).Msg("cache evict failed")
	}
}

// EvictAll removes the entries for every id.
func (s *Store) EvictAll(ctx context.Context, ids []string) {
	for _, id := range ids {
		s.Evict(ctx, id)
	}
}

// RemoveDeprecated drops entries of retired tiles.
func (s *Store) RemoveDeprecated(ctx context.Context) {
	s.EvictAll(ctx, tile.DeprecatedIDs)
}

// decodeEntry accepts {ts, data} and the older bare result shape.
func decodeEntry(raw []byte) (Entry, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Entry{}, err
	}
	if fields == nil {
		return Entry{}, errNotObject
	}

	if ts, data, ok := wrappedFields(fields); ok {
		var res tile.Result
		if err := json.Unmarshal(data, &res); err != nil {
			return Entry{}, err
		}
		return Entry{Timestamp: time.UnixMilli(ts), Data: res}, nil
	}

	if !hasResultField(fields) {
		return Entry{}, errUnknownShape
	}
	var res tile.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return Entry{}, err
	}
	return Entry{Legacy: true, Data: res}, nil
}

// wrappedFields reports a numeric ts next to an object data.
func wrappedFields(fields map[string]json.RawMessage) (int64, json.RawMessage, bool) {
	tsRaw, ok := fields["ts"]
	if !ok {
		return 0, nil, false
	}
	var ts float64
	if err := json.Unmarshal(tsRaw, &ts); err != nil {
		return 0, nil, false
	}
	data := bytes.TrimSpace(fields["data"])
	if len(data) == 0 || data[0] != '{' {
		return 0, nil, false
	}
	return int64(ts), data, true
}

func hasResultField(fields map[string]json.RawMessage) bool {
	for _, k := range []string{"image", "text", "error"} {
		if _, ok := fields[k]; ok {
			return true
		}
	}
	return false
}
