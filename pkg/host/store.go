package host

import "sync"

// Well-known settings keys shared between the settings surface and the
// plugin operations that read them.
const (
	KeyServerURL       = "server.url"
	KeyUsername        = "server.username"
	KeyPassword        = "server.password"
	KeyShowOnDeck      = "display.on_deck"
	KeyShowKeepReading = "display.keep_reading"
)

// StateStore is the key-value store the host exposes for plugin state
// (server address, credentials, display flags). The plugin only ever
// reads it during an operation; writes happen from the settings surface.
type StateStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// MemoryStore is an in-memory StateStore, used by tests and as a default.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}
