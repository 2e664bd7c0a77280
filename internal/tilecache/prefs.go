package tilecache

import (
	"context"
	"fmt"
	"strings"

	"github.com/theirongolddev/critters/internal/kvstore"
)

// ThemeKey stores the light/dark preference.
const ThemeKey = "theme"

// Theme names.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// LoadTheme returns the saved theme, if any valid one is stored.
func LoadTheme(ctx context.Context, kv kvstore.KV) (string, bool) {
	v, ok, err := kv.Get(ctx, ThemeKey)
	if err != nil || !ok {
		return "", false
	}
	name := strings.TrimSpace(string(v))
	if name != ThemeLight && name != ThemeDark {
		return "", false
	}
	return name, true
}

// SaveTheme stores the theme preference.
func SaveTheme(ctx context.Context, kv kvstore.KV, name string) error {
	if name != ThemeLight && name != ThemeDark {
		return fmt.Errorf("unknown theme %q", name)
	}
	return kv.Set(ctx, ThemeKey, []byte(name))
}
