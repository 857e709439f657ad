package persist

import (
	"context"
	"maps"
	"slices"
	"sync"

	"i18n-templates/internal/locale"
)

// Memory keeps written documents in process, encoded exactly as the other
// gateways would store them. Reads of paths not written yet fall through to
// an optional base gateway, so a dry run sees the real locale files while
// every write stays staged.
type Memory struct {
	base Gateway

	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemory creates an empty in-memory gateway. base may be nil.
func NewMemory(base Gateway) *Memory {
	return &Memory{base: base, docs: make(map[string][]byte)}
}

// Get returns the document written at path.
func (m *Memory) Get(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.docs[path]
	return data, ok
}

// Paths returns every written path in sorted order.
func (m *Memory) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.docs))
}

func (m *Memory) ReadDictionary(ctx context.Context, path string) (locale.Dictionary, error) {
	if data, ok := m.Get(path); ok {
		return UnmarshalDictionary(data)
	}
	if m.base == nil {
		return nil, ErrNotFound
	}
	return m.base.ReadDictionary(ctx, path)
}

func (m *Memory) WriteJSON(_ context.Context, path string, value any) error {
	data, err := Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.docs[path] = data
	m.mu.Unlock()
	return nil
}
