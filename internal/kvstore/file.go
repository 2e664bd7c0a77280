package kvstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const fileExt = ".json"

// File stores one file per key under a directory. Writes go through a temp
// file and rename so a crash never leaves a half-written value.
type File struct {
	mu    sync.Mutex
	dir   string
	quota int64
}

// NewFile creates dir if needed. quota <= 0 means unbounded.
func NewFile(dir string, quota int64) (*File, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}
	return &File{dir: dir, quota: quota}, nil
}

// Dir returns the backing directory.
func (f *File) Dir() string { return f.dir }

// Get implements KV.
func (f *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %q: %w", key, err)
	}
	return data, true, nil
}

// Set implements KV.
func (f *File) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.quota > 0 {
		used, err := f.usage(key)
		if err != nil {
			return err
		}
		if used+entrySize(key, value) > f.quota {
			return ErrQuotaExceeded
		}
	}
	return writeAtomic(f.path(key), value)
}

// Delete implements KV.
func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := os.Remove(f.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %q: %w", key, err)
	}
	return nil
}

// Keys implements KV. The result is sorted.
func (f *File) Keys(_ context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("listing store: %w", err)
	}
	var keys []string
	for _, e := range entries {
		key, ok := keyFromFile(e)
		if ok && strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// usage sums the size of every stored entry except skip.
func (f *File) usage(skip string) (int64, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return 0, fmt.Errorf("listing store: %w", err)
	}
	var total int64
	for _, e := range entries {
		key, ok := keyFromFile(e)
		if !ok || key == skip {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		total += int64(len(key)) + info.Size()
	}
	return total, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, fileName(key))
}

// fileName escapes every byte outside [A-Za-z0-9_-] as %XX so that any key
// maps to a single flat file name and back.
func fileName(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String() + fileExt
}

func keyFromFile(e os.DirEntry) (string, bool) {
	name := e.Name()
	if e.IsDir() || !strings.HasSuffix(name, fileExt) || strings.HasPrefix(name, ".") {
		return "", false
	}
	key, err := url.PathUnescape(strings.TrimSuffix(name, fileExt))
	if err != nil {
		return "", false
	}
	return key, true
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".critters-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
