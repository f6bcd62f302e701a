package store

import (
	"context"
	"sync"
)

var _ KV = (*Memory)(nil)

// NewMemory return a process local KV, used in tests and when no redis
// address is configured
func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

type Memory struct {
	mtx   sync.RWMutex
	items map[string]string
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	v, ok := m.items[key]
	if !ok {
		return "", ErrNotFound
	}

	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.items[key] = value

	return nil
}
