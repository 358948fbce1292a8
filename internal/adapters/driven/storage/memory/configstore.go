package memory

import (
	"sync"

	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in memory. With a base store it is an overlay:
// reads fall through to base for keys it has not touched, and writes never
// reach base. The active func switches the overlay on; while it reports
// false every call goes straight to base.
type ConfigStore struct {
	base   driven.ConfigStore
	active func() bool

	mu      sync.RWMutex
	values  map[string]any
	deleted map[string]bool
}

// NewConfigStore creates a standalone in-memory store.
func NewConfigStore() *ConfigStore {
	return NewOverlay(nil, nil)
}

// NewOverlay layers an in-memory store over base. A nil active keeps the
// overlay on permanently.
func NewOverlay(base driven.ConfigStore, active func() bool) *ConfigStore {
	return &ConfigStore{
		base:    base,
		active:  active,
		values:  map[string]any{},
		deleted: map[string]bool{},
	}
}

func (s *ConfigStore) passthrough() bool {
	return s.base != nil && s.active != nil && !s.active()
}

// Get returns the value for key.
func (s *ConfigStore) Get(key string) (any, bool) {
	if s.passthrough() {
		return s.base.Get(key)
	}

	s.mu.RLock()
	v, ok := s.values[key]
	gone := s.deleted[key]
	s.mu.RUnlock()

	switch {
	case ok:
		return v, true
	case gone || s.base == nil:
		return nil, false
	default:
		return s.base.Get(key)
	}
}

// GetString returns key as a string, or "" when it is missing or another type.
func (s *ConfigStore) GetString(key string) string {
	v, _ := s.Get(key)
	str, _ := v.(string)
	return str
}

// GetInt returns key as an int. Float and int64 values are converted.
func (s *ConfigStore) GetInt(key string) int {
	v, _ := s.Get(key)
	n, _ := asNumber(v)
	return int(n)
}

// GetFloat returns key as a float64. Integer values are converted.
func (s *ConfigStore) GetFloat(key string) float64 {
	v, _ := s.Get(key)
	n, _ := asNumber(v)
	return n
}

// GetBool returns key as a bool. Strings are not parsed.
func (s *ConfigStore) GetBool(key string) bool {
	v, _ := s.Get(key)
	b, _ := v.(bool)
	return b
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// Set stores value for key.
func (s *ConfigStore) Set(key string, value any) error {
	if s.passthrough() {
		return s.base.Set(key, value)
	}

	s.mu.Lock()
	s.values[key] = value
	delete(s.deleted, key)
	s.mu.Unlock()
	return nil
}

// Delete hides key, including any value in the base store.
func (s *ConfigStore) Delete(key string) error {
	if s.passthrough() {
		return s.base.Delete(key)
	}

	s.mu.Lock()
	delete(s.values, key)
	s.deleted[key] = true
	s.mu.Unlock()
	return nil
}

// Save is a no-op unless the overlay is off.
func (s *ConfigStore) Save() error {
	if s.passthrough() {
		return s.base.Save()
	}
	return nil
}

// Load re-reads the base store. Overlay values are kept.
func (s *ConfigStore) Load() error {
	if s.base == nil {
		return nil
	}
	return s.base.Load()
}

// Path returns ":memory:" while the overlay is on, otherwise the base path.
func (s *ConfigStore) Path() string {
	if s.passthrough() {
		return s.base.Path()
	}
	return ":memory:"
}
