package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/theirongolddev/critters/internal/watcher"
)

// reloadDebounce absorbs the several events an editor save produces.
const reloadDebounce = 500 * time.Millisecond

// Watch reloads path whenever it changes and passes the result to onChange.
// Reload errors, including an invalid file, go to onError and the previous
// config stays in effect. The returned function stops watching.
func Watch(path string, onChange func(*Config), onError func(error)) (func(), error) {
	if path == "" {
		path = DefaultPath()
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	report := func(err error) {
		if onError != nil {
			onError(err)
		}
	}

	w, err := watcher.New(func(events []watcher.Event) {
		cfg, err := Load(absPath)
		if err != nil {
			report(fmt.Errorf("reloading config: %w", err))
			return
		}
		if onChange != nil {
			onChange(cfg)
		}
	},
		watcher.WithDebounceDuration(reloadDebounce),
		watcher.WithEventFilter(watcher.Create|watcher.Write|watcher.Rename),
		watcher.WithErrorHandler(report),
	)
	if err != nil {
		return nil, fmt.Errorf("creating config watcher: %w", err)
	}

	if err := w.Add(absPath); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching config path %s: %w", absPath, err)
	}

	return func() {
		w.Close()
	}, nil
}
