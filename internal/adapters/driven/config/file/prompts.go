package file

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

const promptExt = ".txt"

//go:embed prompts_readme.md
var promptReadme []byte

// PromptStore reads prompt overrides from <dir>/<name>.txt.
// The directory is created on first Load. A missing or blank file is
// domain.ErrNotFound and the caller keeps its built-in prompt.
type PromptStore struct {
	dir string

	prepare  sync.Once
	setupErr error

	mu     sync.RWMutex
	loaded map[string]string
}

// NewPromptStore creates a store rooted at dir, or ~/.docvault/prompts when
// dir is empty.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".docvault", "prompts")
	}
	return &PromptStore{dir: dir, loaded: map[string]string{}}, nil
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Path returns the file an override for name is read from.
func (s *PromptStore) Path(name string) string {
	return filepath.Join(s.dir, name+promptExt)
}

// Load returns the override for name. The first successful read is cached
// until Reload.
func (s *PromptStore) Load(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: prompt name %q", domain.ErrInvalidInput, name)
	}

	s.prepare.Do(s.setup)
	if s.setupErr != nil {
		return "", fmt.Errorf("prompt store init failed: %w", s.setupErr)
	}

	s.mu.RLock()
	text, ok := s.loaded[name]
	s.mu.RUnlock()
	if ok {
		return text, nil
	}

	raw, err := os.ReadFile(s.Path(name))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("prompt %q: %w", name, domain.ErrNotFound)
	case err != nil:
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	text = strings.TrimSpace(string(raw))
	if text == "" {
		return "", fmt.Errorf("prompt %q is empty: %w", name, domain.ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.loaded[name]; ok {
		return prev, nil
	}
	s.loaded[name] = text
	return text, nil
}

// Reload forgets every cached override.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	clear(s.loaded)
	s.mu.Unlock()
}

func (s *PromptStore) setup() {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		s.setupErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	readme := filepath.Join(s.dir, "README.md")
	if _, err := os.Stat(readme); err == nil {
		return
	}
	if err := os.WriteFile(readme, promptReadme, 0o600); err != nil {
		s.setupErr = fmt.Errorf("write prompt readme: %w", err)
	}
}
