package storage

import (
	"context"
	"maps"
	"sync"
)

// MemoryStore is an in-process Store. Data does not survive the process.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStore returns an empty in-process Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memoryView(m.data).Get(ctx, key)
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memoryView(m.data).Set(ctx, key, value)
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memoryView(m.data).Delete(ctx, key)
}

func (m *MemoryStore) List(ctx context.Context) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memoryView(m.data).List(ctx)
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.data)
	return nil
}

// Update holds the lock for the whole of fn, so concurrent Updates are
// serialized. fn works on a copy that replaces the live map only on success.
func (m *MemoryStore) Update(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	working := maps.Clone(m.data)
	if err := fn(ctx, memoryView(working)); err != nil {
		return err
	}
	m.data = working
	return nil
}

// memoryView is an unlocked Repository over a map; callers hold the lock.
type memoryView map[string][]byte

func (v memoryView) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := v[key]
	if !ok {
		return nil, nil
	}
	return append([]byte{}, value...), nil
}

func (v memoryView) Set(_ context.Context, key string, value []byte) error {
	v[key] = append([]byte{}, value...)
	return nil
}

func (v memoryView) Delete(_ context.Context, key string) error {
	delete(v, key)
	return nil
}

func (v memoryView) List(_ context.Context) (map[string][]byte, error) {
	out := make(map[string][]byte, len(v))
	for k, value := range v {
		out[k] = append([]byte{}, value...)
	}
	return out, nil
}

func (v memoryView) Clear(_ context.Context) error {
	clear(v)
	return nil
}
