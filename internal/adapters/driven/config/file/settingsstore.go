package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/scanlog/internal/core/domain"
	"github.com/custodia-labs/scanlog/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// SettingsStore is a file-based implementation of driven.SettingsStore using TOML.
// Settings are stored in config.toml within the scanlog config directory.
// Keys missing from the file take their default values.
type SettingsStore struct {
	mu       sync.Mutex
	filePath string
}

// fileSettings mirrors the TOML layout. Pointer fields distinguish a
// missing key from a zero value.
type fileSettings struct {
	Debounce     debounceSection     `toml:"debounce"`
	Connectivity connectivitySection `toml:"connectivity"`
	Storage      storageSection      `toml:"storage"`
	Features     featuresSection     `toml:"features"`
}

type debounceSection struct {
	WindowMS *int64 `toml:"window_ms,omitempty"`
}

type connectivitySection struct {
	ProbeURL            *string `toml:"probe_url,omitempty"`
	TimeoutMS           *int64  `toml:"timeout_ms,omitempty"`
	PollIntervalSeconds *int64  `toml:"poll_interval_seconds,omitempty"`
}

type storageSection struct {
	Backend *string `toml:"backend,omitempty"`
	DataDir *string `toml:"data_dir,omitempty"`
}

type featuresSection struct {
	Enabled *bool `toml:"enabled,omitempty"`
}

// NewSettingsStore creates a new TOML-based settings store.
// If configDir is empty, defaults to ~/.scanlog/config.toml.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".scanlog")
	}

	return &SettingsStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Load reads settings from the TOML file. A missing file yields the defaults.
func (s *SettingsStore) Load() (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := domain.DefaultSettings()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return domain.Settings{}, fmt.Errorf("reading %s: %w", s.filePath, err)
	}

	var fs fileSettings
	if err := toml.Unmarshal(data, &fs); err != nil {
		return domain.Settings{}, fmt.Errorf("parsing %s: %w", s.filePath, err)
	}
	fs.applyTo(&settings)

	settings.Storage.DataDir, err = expandHome(settings.Storage.DataDir)
	if err != nil {
		return domain.Settings{}, err
	}

	if err := settings.Validate(); err != nil {
		return domain.Settings{}, fmt.Errorf("%s: %w", s.filePath, err)
	}
	return settings, nil
}

// Save validates settings and writes them to the TOML file.
func (s *SettingsStore) Save(settings domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(fromSettings(settings))
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write with restricted permissions
	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the configuration file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}

func (fs fileSettings) applyTo(settings *domain.Settings) {
	if v := fs.Debounce.WindowMS; v != nil {
		settings.Debounce.Window = time.Duration(*v) * time.Millisecond
	}
	if v := fs.Connectivity.ProbeURL; v != nil {
		settings.Connectivity.ProbeURL = *v
	}
	if v := fs.Connectivity.TimeoutMS; v != nil {
		settings.Connectivity.Timeout = time.Duration(*v) * time.Millisecond
	}
	if v := fs.Connectivity.PollIntervalSeconds; v != nil {
		settings.Connectivity.PollInterval = time.Duration(*v) * time.Second
	}
	if v := fs.Storage.Backend; v != nil {
		settings.Storage.Backend = domain.StorageBackend(*v)
	}
	if v := fs.Storage.DataDir; v != nil {
		settings.Storage.DataDir = *v
	}
	if v := fs.Features.Enabled; v != nil {
		settings.Features.Enabled = *v
	}
}

func fromSettings(settings domain.Settings) fileSettings {
	window := settings.Debounce.Window.Milliseconds()
	probeURL := settings.Connectivity.ProbeURL
	timeout := settings.Connectivity.Timeout.Milliseconds()
	poll := int64(settings.Connectivity.PollInterval / time.Second)
	backend := settings.Storage.Backend.String()
	enabled := settings.Features.Enabled

	fs := fileSettings{
		Debounce: debounceSection{WindowMS: &window},
		Connectivity: connectivitySection{
			ProbeURL:            &probeURL,
			TimeoutMS:           &timeout,
			PollIntervalSeconds: &poll,
		},
		Storage:  storageSection{Backend: &backend},
		Features: featuresSection{Enabled: &enabled},
	}
	if dir := settings.Storage.DataDir; dir != "" {
		fs.Storage.DataDir = &dir
	}
	return fs
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
