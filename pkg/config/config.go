// Package config persists plugin settings in a TOML file under the
// user's home directory. It doubles as the host.StateStore the plugin
// reads during operations.
package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/kerbaras/komgas/pkg/host"
	"github.com/kerbaras/komgas/pkg/komga"
)

var _ host.StateStore = (*FileStore)(nil)

type FileStore struct {
	mu   sync.RWMutex
	path string
	data map[string]string
}

// NewFileStore opens (or creates) the settings file. An empty dir
// defaults to ~/.komgas.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".komgas")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	s := &FileStore{
		path: filepath.Join(dir, "config.toml"),
		data: make(map[string]string),
	}
	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return toml.Unmarshal(raw, &s.data)
}

// save writes the settings file. Credentials live here, hence 0600.
func (s *FileStore) save() error {
	s.mu.RLock()
	raw, err := toml.Marshal(s.data)
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	s.data[key] = value
	s.mu.Unlock()
	return s.save()
}

// ServerConfig assembles the komga client configuration from the store.
func (s *FileStore) ServerConfig() komga.Config {
	return ServerConfig(s)
}

// ServerConfig reads the server settings out of any StateStore.
func ServerConfig(store host.StateStore) komga.Config {
	url, _ := store.Get(host.KeyServerURL)
	user, _ := store.Get(host.KeyUsername)
	pass, _ := store.Get(host.KeyPassword)
	return komga.Config{BaseURL: url, Username: user, Password: pass}
}

// FlagEnabled reads a boolean display flag. Unset flags default to on.
func FlagEnabled(store host.StateStore, key string) bool {
	v, ok := store.Get(key)
	if !ok {
		return true
	}
	return v != "false"
}
