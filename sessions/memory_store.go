package sessions

import "sync"

var _ Store = &MemoryStore{}

// MemoryStore is a thread-safe in-memory implementation of Store
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
	}
}

func (m *MemoryStore) Set(name, value string) error {
	if name == "" {
		return ErrInvalidName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[name] = value
	return nil
}

func (m *MemoryStore) Get(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[name]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, name) // Already doesn't exist, no error
	return nil
}
