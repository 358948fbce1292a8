package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

const configFileName = "config.toml"

const configHeader = "# docvault settings. Change them with 'docvault settings set <key> <value>'.\n\n"

// ConfigStore persists settings to a TOML file. Keys use dot notation in
// memory ("chunking.size") and become tables on disk ([chunking] size = ...).
// Every Set and Delete rewrites the file.
type ConfigStore struct {
	path string

	mu     sync.RWMutex
	values map[string]any
}

// NewConfigStore opens <dir>/config.toml, creating dir when needed.
// An empty dir means ~/.docvault. A missing file is an empty store.
func NewConfigStore(dir string) (*ConfigStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".docvault")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	s := &ConfigStore{
		path:   filepath.Join(dir, configFileName),
		values: map[string]any{},
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the config file location.
func (s *ConfigStore) Path() string {
	return s.path
}

// Get returns the raw value for key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// GetString returns key as a string, or "" for other types.
func (s *ConfigStore) GetString(key string) string {
	v, _ := s.Get(key)
	str, _ := v.(string)
	return str
}

// GetInt returns key as an int. TOML integers decode as int64.
func (s *ConfigStore) GetInt(key string) int {
	v, _ := s.Get(key)
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	}
	return 0
}

// GetFloat returns key as a float64. Integers are converted.
func (s *ConfigStore) GetFloat(key string) float64 {
	v, _ := s.Get(key)
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

// GetBool returns key as a bool.
func (s *ConfigStore) GetBool(key string) bool {
	v, _ := s.Get(key)
	b, _ := v.(bool)
	return b
}

// Set stores value under key and writes the file.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.write()
}

// Delete removes key and writes the file. Missing keys are ignored.
func (s *ConfigStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.write()
}

// Save writes the current values to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write()
}

// Load replaces the in-memory values with the file's contents.
func (s *ConfigStore) Load() error {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.mu.Lock()
		s.values = map[string]any{}
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", s.path, err)
	}

	tree := map[string]any{}
	if err := toml.Unmarshal(raw, &tree); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}

	values := map[string]any{}
	flatten(values, "", tree)

	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

// write replaces the file through a temp file in the same directory so a
// crash never leaves a half-written config. Caller holds mu.
func (s *ConfigStore) write() error {
	body, err := toml.Marshal(nest(s.values))
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".config-*.toml")
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.WriteString(configHeader); err == nil {
		_, err = tmp.Write(body)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}

// flatten copies tree into dst with dotted keys.
func flatten(dst map[string]any, prefix string, tree map[string]any) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			flatten(dst, key, sub)
			continue
		}
		dst[key] = v
	}
}

// nest turns dotted keys into nested tables. When a key is both a value
// and a table prefix the value keeps its full dotted name at the top level.
func nest(flat map[string]any) map[string]any {
	root := map[string]any{}
	for key, v := range flat {
		parts := strings.Split(key, ".")
		if table, ok := descend(root, parts[:len(parts)-1]); ok {
			table[parts[len(parts)-1]] = v
		} else {
			root[key] = v
		}
	}
	return root
}

func descend(node map[string]any, path []string) (map[string]any, bool) {
	for _, p := range path {
		child, exists := node[p]
		if !exists {
			next := map[string]any{}
			node[p] = next
			node = next
			continue
		}
		next, ok := child.(map[string]any)
		if !ok {
			return nil, false
		}
		node = next
	}
	return node, true
}
