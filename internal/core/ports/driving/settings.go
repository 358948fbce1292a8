package driving

import (
	"context"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings with defaults and
	// environment overrides applied.
	Get() (domain.AppSettings, error)

	// Save validates and persists application settings.
	Save(settings domain.AppSettings) error

	// Set updates a single setting by its config key, parsing value for the key's type.
	Set(key, value string) error

	// Reset removes every stored setting so defaults apply.
	Reset() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Keys returns the supported config keys in display order.
	Keys() []string

	// Value renders one config key of settings for display.
	Value(settings domain.AppSettings, key string) (string, error)

	// Status checks the inference server for the current settings.
	Status(ctx context.Context) (*domain.AIStatus, error)
}
