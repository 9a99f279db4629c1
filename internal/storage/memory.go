package storage

import (
	"context"
	"sync"
)

// Memory is the reference in-memory backend. Safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	content map[string]string
	pinned  map[string]bool
}

var _ Storage = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		content: make(map[string]string),
		pinned:  make(map[string]bool),
	}
}

// Store saves content under its derived id.
func (m *Memory) Store(_ context.Context, content string) (string, error) {
	id := ContentID(content)
	m.mu.Lock()
	m.content[id] = content
	m.mu.Unlock()
	return id, nil
}

// Retrieve returns the content stored under id.
func (m *Memory) Retrieve(_ context.Context, id string) (string, error) {
	m.mu.RLock()
	content, ok := m.content[id]
	m.mu.RUnlock()
	if !ok {
		return "", notFound(id)
	}
	return content, nil
}

// Exists reports whether content is stored under id.
func (m *Memory) Exists(_ context.Context, id string) (bool, error) {
	m.mu.RLock()
	_, ok := m.content[id]
	m.mu.RUnlock()
	return ok, nil
}

// Pin marks id as retained. Pinning an unknown id succeeds; the pin takes
// effect if the content arrives later.
func (m *Memory) Pin(_ context.Context, id string) error {
	m.mu.Lock()
	m.pinned[id] = true
	m.mu.Unlock()
	return nil
}

// Unpin removes id from the retention set.
func (m *Memory) Unpin(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.pinned, id)
	m.mu.Unlock()
	return nil
}

// Pinned reports whether id is currently pinned.
func (m *Memory) Pinned(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pinned[id]
}

// Len returns the number of stored blobs.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.content)
}
