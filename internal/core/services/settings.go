package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
	"github.com/custodia-labs/docvault/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyProvider          = "provider"
	KeyAPIKey            = "api_key"
	KeyLLMModel          = "models.llm"
	KeyEmbedModel        = "models.embed"
	KeyBaseURL           = "ollama.base_url"
	KeyChunkSize         = "chunking.size"
	KeyChunkOverlap      = "chunking.overlap"
	KeyTopK              = "retrieval.top_k"
	KeyEmbedConcurrency  = "embedding.concurrency"
	KeyEmbedRate         = "embedding.rate_per_second"
	KeyEmbedTimeout      = "embedding.timeout"
	KeyGenerationTimeout = "generation.timeout"
	KeyDataDir           = "data.dir"
)

// Environment overrides, applied after the config file.
const (
	EnvProvider   = "DOCVAULT_PROVIDER"
	EnvAPIKey     = "DOCVAULT_API_KEY"
	EnvOllamaURL  = "DOCVAULT_OLLAMA_URL"
	EnvLLMModel   = "DOCVAULT_LLM_MODEL"
	EnvEmbedModel = "DOCVAULT_EMBED_MODEL"
	EnvDataDir    = "DOCVAULT_DATA_DIR"
)

// setting binds a config key to an AppSettings field.
type setting struct {
	key string
	env string
	get func(s domain.AppSettings) any
	set func(s *domain.AppSettings, value string) error
}

var settingsTable = []setting{
	{
		key: KeyProvider,
		env: EnvProvider,
		get: func(s domain.AppSettings) any { return s.Provider.String() },
		set: func(s *domain.AppSettings, v string) error {
			p := domain.AIProvider(v)
			if !p.IsValid() {
				return fmt.Errorf("unknown provider %q (want %s or %s)",
					v, domain.AIProviderOllama, domain.AIProviderOpenAICompatible)
			}
			s.Provider = p
			return nil
		},
	},
	{
		key: KeyLLMModel,
		env: EnvLLMModel,
		get: func(s domain.AppSettings) any { return s.LLMModel },
		set: func(s *domain.AppSettings, v string) error { s.LLMModel = v; return nil },
	},
	{
		key: KeyEmbedModel,
		env: EnvEmbedModel,
		get: func(s domain.AppSettings) any { return s.EmbedModel },
		set: func(s *domain.AppSettings, v string) error { s.EmbedModel = v; return nil },
	},
	{
		key: KeyBaseURL,
		env: EnvOllamaURL,
		get: func(s domain.AppSettings) any { return s.OllamaBaseURL },
		set: func(s *domain.AppSettings, v string) error { s.OllamaBaseURL = v; return nil },
	},
	{
		key: KeyAPIKey,
		env: EnvAPIKey,
		get: func(s domain.AppSettings) any { return s.APIKey },
		set: func(s *domain.AppSettings, v string) error { s.APIKey = v; return nil },
	},
	{
		key: KeyChunkSize,
		get: func(s domain.AppSettings) any { return s.ChunkSize },
		set: func(s *domain.AppSettings, v string) error { return parseInt(v, &s.ChunkSize) },
	},
	{
		key: KeyChunkOverlap,
		get: func(s domain.AppSettings) any { return s.ChunkOverlap },
		set: func(s *domain.AppSettings, v string) error { return parseInt(v, &s.ChunkOverlap) },
	},
	{
		key: KeyTopK,
		get: func(s domain.AppSettings) any { return s.TopK },
		set: func(s *domain.AppSettings, v string) error { return parseInt(v, &s.TopK) },
	},
	{
		key: KeyEmbedConcurrency,
		get: func(s domain.AppSettings) any { return s.EmbedConcurrency },
		set: func(s *domain.AppSettings, v string) error { return parseInt(v, &s.EmbedConcurrency) },
	},
	{
		key: KeyEmbedRate,
		get: func(s domain.AppSettings) any { return s.EmbedRatePerSecond },
		set: func(s *domain.AppSettings, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("expected a number, got %q", v)
			}
			s.EmbedRatePerSecond = f
			return nil
		},
	},
	{
		key: KeyEmbedTimeout,
		get: func(s domain.AppSettings) any { return s.EmbedTimeout.String() },
		set: func(s *domain.AppSettings, v string) error { return parseDuration(v, &s.EmbedTimeout) },
	},
	{
		key: KeyGenerationTimeout,
		get: func(s domain.AppSettings) any { return s.GenerateTimeout.String() },
		set: func(s *domain.AppSettings, v string) error { return parseDuration(v, &s.GenerateTimeout) },
	},
	{
		key: KeyDataDir,
		env: EnvDataDir,
		get: func(s domain.AppSettings) any { return s.DataDir },
		set: func(s *domain.AppSettings, v string) error { s.DataDir = v; return nil },
	},
}

func lookupSetting(key string) (setting, bool) {
	for _, st := range settingsTable {
		if st.key == key {
			return st, true
		}
	}
	return setting{}, false
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	checker     driven.AIStatusChecker
	getenv      func(string) string
}

// NewSettingsService creates a new settings service. checker may be nil.
func NewSettingsService(configStore driven.ConfigStore, checker driven.AIStatusChecker) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		checker:     checker,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings. Unset or unparsable keys
// fall back to defaults; DOCVAULT_* environment variables win over the file.
func (s *SettingsService) Get() (domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()

	for _, st := range settingsTable {
		if raw, ok := s.configStore.Get(st.key); ok {
			value := strings.TrimSpace(fmt.Sprint(raw))
			if value != "" {
				if err := st.set(&settings, value); err != nil {
					log.Warn("ignoring config %s: %v", st.key, err)
				}
			}
		}

		if st.env == "" {
			continue
		}
		if value := strings.TrimSpace(s.getenv(st.env)); value != "" {
			if err := st.set(&settings, value); err != nil {
				log.Warn("ignoring %s: %v", st.env, err)
			}
		}
	}

	return settings, nil
}

// Save validates and persists application settings.
// Empty string values are removed from the file so defaults apply.
func (s *SettingsService) Save(settings domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	for _, st := range settingsTable {
		value := st.get(settings)
		if str, ok := value.(string); ok && str == "" {
			if err := s.configStore.Delete(st.key); err != nil {
				return fmt.Errorf("save %s: %w", st.key, err)
			}
			continue
		}
		if err := s.configStore.Set(st.key, value); err != nil {
			return fmt.Errorf("save %s: %w", st.key, err)
		}
	}
	return nil
}

// Set updates a single setting by key. The value is parsed for the key's
// type and the resulting settings must validate before anything is written.
func (s *SettingsService) Set(key, value string) error {
	st, ok := lookupSetting(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q (known: %s)",
			domain.ErrInvalidInput, key, strings.Join(s.Keys(), ", "))
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	value = strings.TrimSpace(value)
	if value == "" {
		if err := s.configStore.Delete(key); err != nil {
			return fmt.Errorf("reset %s: %w", key, err)
		}
		return nil
	}

	if err := st.set(&settings, value); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidSettings, key, err)
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(key, st.get(settings)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Reset removes every stored setting.
func (s *SettingsService) Reset() error {
	for _, st := range settingsTable {
		if err := s.configStore.Delete(st.key); err != nil {
			return fmt.Errorf("reset %s: %w", st.key, err)
		}
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Keys returns the supported config keys in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingsTable))
	for i, st := range settingsTable {
		keys[i] = st.key
	}
	return keys
}

// Value returns the display value of one key for the given settings.
func (s *SettingsService) Value(settings domain.AppSettings, key string) (string, error) {
	st, ok := lookupSetting(key)
	if !ok {
		return "", fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	return fmt.Sprint(st.get(settings)), nil
}

// Status checks the inference server for the current settings.
func (s *SettingsService) Status(ctx context.Context) (*domain.AIStatus, error) {
	if s.checker == nil {
		return nil, errors.New("no status checker configured")
	}
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	return s.checker.Status(ctx, settings)
}

func parseInt(v string, dst *int) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("expected an integer, got %q", v)
	}
	*dst = n
	return nil
}

// parseDuration accepts Go durations ("30s", "2m") or bare seconds.
func parseDuration(v string, dst *time.Duration) error {
	if secs, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(secs) * time.Second
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("expected a duration like 30s, got %q", v)
	}
	*dst = d
	return nil
}
