package kvstore

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Memory is a process-local KV. A positive quota bounds the total size of
// keys plus values.
type Memory struct {
	mu    sync.RWMutex
	data  map[string][]byte
	used  int64
	quota int64
}

// NewMemory returns an empty store. quota <= 0 means unbounded.
func NewMemory(quota int64) *Memory {
	return &Memory{data: make(map[string][]byte), quota: quota}
}

// Get implements KV.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Set implements KV.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	used := m.used
	if old, ok := m.data[key]; ok {
		used -= entrySize(key, old)
	}
	used += entrySize(key, value)
	if m.quota > 0 && used > m.quota {
		return ErrQuotaExceeded
	}

	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	m.used = used
	return nil
}

// Delete implements KV.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.data[key]; ok {
		m.used -= entrySize(key, old)
		delete(m.data, key)
	}
	return nil
}

// Keys implements KV. The result is sorted.
func (m *Memory) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func entrySize(key string, value []byte) int64 {
	return int64(len(key) + len(value))
}
