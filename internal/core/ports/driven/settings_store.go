package driven

import "github.com/custodia-labs/scanlog/internal/core/domain"

// SettingsStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files) and defaults.
type SettingsStore interface {
	// Load reads the settings, filling unset values with defaults.
	Load() (domain.Settings, error)

	// Save persists the settings.
	Save(settings domain.Settings) error

	// Path returns the configuration file path.
	Path() string
}
