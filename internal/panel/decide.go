package panel

import (
	"time"

	"github.com/theirongolddev/critters/internal/tilecache"
)

// Action is what a cache-first load does with what it found.
type Action int

const (
	// FetchFresh means nothing usable was cached.
	FetchFresh Action = iota
	// ShowCachedThenBackgroundRefresh shows a fresh entry and refreshes it
	// quietly after a short delay.
	ShowCachedThenBackgroundRefresh
	// ShowCachedThenForegroundRefresh shows a stale entry badged as stale
	// and refreshes it right away, surfacing failures.
	ShowCachedThenForegroundRefresh
)

func (a Action) String() string {
	switch a {
	case FetchFresh:
		return "fetch"
	case ShowCachedThenBackgroundRefresh:
		return "cached+background"
	case ShowCachedThenForegroundRefresh:
		return "stale+foreground"
	default:
		return "unknown"
	}
}

// Decide picks the action for a cache read. An entry older than ttl, or a
// legacy entry, is stale; an entry exactly ttl old is still fresh.
func Decide(entry *tilecache.Entry, now time.Time, ttl time.Duration) Action {
	if entry == nil {
		return FetchFresh
	}
	if entry.Legacy || entry.Age(now) > ttl {
		return ShowCachedThenForegroundRefresh
	}
	return ShowCachedThenBackgroundRefresh
}
