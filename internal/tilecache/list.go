package tilecache

import (
	"context"
	"strings"
	"time"
)

// Listing describes the cache state of one tile.
type Listing struct {
	ID      string        `json:"id" yaml:"id"`
	Present bool          `json:"present" yaml:"present"`
	Legacy  bool          `json:"legacy,omitempty" yaml:"legacy,omitempty"`
	Age     time.Duration `json:"age_ns,omitempty" yaml:"age,omitempty"`
	Entry   *Entry        `json:"-" yaml:"-"`
}

// List reports the cache state of ids in order, followed by any other tile
// keys found in the store.
func (s *Store) List(ctx context.Context, ids []string) []Listing {
	now := s.clock.Now()
	seen := make(map[string]bool, len(ids))

	out := make([]Listing, 0, len(ids))
	for _, id := range ids {
		seen[id] = true
		out = append(out, s.listing(ctx, id, now))
	}

	keys, err := s.kv.Keys(ctx, KeyPrefix)
	if err != nil {
		s.log.Warn().Err(err).Msg("cache key scan failed")
		return out
	}
	for _, k := range keys {
		id := strings.TrimPrefix(k, KeyPrefix)
		if !seen[id] {
			out = append(out, s.listing(ctx, id, now))
		}
	}
	return out
}

func (s *Store) listing(ctx context.Context, id string, now time.Time) Listing {
	l := Listing{ID: id}
	e, ok := s.Read(ctx, id)
	if !ok {
		return l
	}
	l.Present = true
	l.Legacy = e.Legacy
	if !e.Legacy {
		l.Age = e.Age(now)
	}
	l.Entry = &e
	return l
}
