package domain

import (
	"fmt"
	"net/url"
	"time"
)

// StorageBackend identifies where scan history is persisted.
type StorageBackend string

// Available storage backends.
const (
	// StorageBackendSQLite persists history in a local SQLite database.
	StorageBackendSQLite StorageBackend = "sqlite"

	// StorageBackendMemory keeps history for the process lifetime only.
	StorageBackendMemory StorageBackend = "memory"
)

// IsValid returns true if the storage backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageBackendSQLite, StorageBackendMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageBackendSQLite:
		return "SQLite (durable)"
	case StorageBackendMemory:
		return "Memory (process lifetime)"
	default:
		return "Unknown"
	}
}

// Default tuning values.
const (
	DefaultDebounceWindow   = 500 * time.Millisecond
	DefaultProbeTimeout     = 3000 * time.Millisecond
	DefaultPollInterval     = 30 * time.Second
	DefaultProbeURL         = "https://clients3.google.com/generate_204"
	DefaultHistoryKey       = "history"
	minimumDebounceWindow   = time.Millisecond
	minimumProbePollingRate = time.Second
)

// DebounceSettings controls duplicate suppression for stream sources.
type DebounceSettings struct {
	// Window is the minimum interval before an identical payload is re-accepted.
	Window time.Duration
}

// ConnectivitySettings controls the reachability probe.
type ConnectivitySettings struct {
	// ProbeURL is requested to decide reachability.
	ProbeURL string

	// Timeout bounds a single check. A check that exceeds it resolves OFFLINE.
	Timeout time.Duration

	// PollInterval is how often live transitions are sampled.
	PollInterval time.Duration
}

// StorageSettings controls history persistence.
type StorageSettings struct {
	// Backend selects the persistence adapter.
	Backend StorageBackend

	// DataDir is where durable backends keep their files.
	// Empty means ~/.scanlog/data.
	DataDir string
}

// FeatureSettings controls the optional network-dependent features.
type FeatureSettings struct {
	// Enabled is the master switch. When false the feature gate never opens.
	Enabled bool
}

// Settings holds all application configuration.
type Settings struct {
	Debounce     DebounceSettings
	Connectivity ConnectivitySettings
	Storage      StorageSettings
	Features     FeatureSettings
}

// DefaultSettings returns sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Debounce: DebounceSettings{
			Window: DefaultDebounceWindow,
		},
		Connectivity: ConnectivitySettings{
			ProbeURL:     DefaultProbeURL,
			Timeout:      DefaultProbeTimeout,
			PollInterval: DefaultPollInterval,
		},
		Storage: StorageSettings{
			Backend: StorageBackendSQLite,
		},
		Features: FeatureSettings{
			Enabled: true,
		},
	}
}

// Validate checks the settings for values the services cannot run with.
func (s Settings) Validate() error {
	if s.Debounce.Window < minimumDebounceWindow {
		return fmt.Errorf("%w: debounce window must be at least %s", ErrInvalidInput, minimumDebounceWindow)
	}
	if s.Connectivity.Timeout <= 0 {
		return fmt.Errorf("%w: connectivity timeout must be positive", ErrInvalidInput)
	}
	if s.Connectivity.PollInterval < minimumProbePollingRate {
		return fmt.Errorf("%w: poll interval must be at least %s", ErrInvalidInput, minimumProbePollingRate)
	}
	u, err := url.Parse(s.Connectivity.ProbeURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: probe url %q must be an absolute http(s) URL", ErrInvalidInput, s.Connectivity.ProbeURL)
	}
	if !s.Storage.Backend.IsValid() {
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidInput, s.Storage.Backend)
	}
	return nil
}
