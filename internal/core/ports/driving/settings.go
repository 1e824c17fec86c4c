package driving

import "github.com/custodia-labs/simple-storage/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves the current settings, applying defaults.
	Get() (*domain.StorageSettings, error)

	// Set stores a single setting by its configuration key.
	Set(key, value string) error

	// ConfigPath returns the location of the configuration file.
	ConfigPath() string
}
