package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scanlog/internal/core/domain"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))
}

func TestNewSettingsStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewSettingsStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewSettingsStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	store, err := NewSettingsStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".scanlog", "config.toml"), store.Path())
}

func TestSettingsStore_Load_MissingFileGivesDefaults(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	settings, err := store.Load()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestSettingsStore_Load_PartialFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `
[debounce]
window_ms = 750

[storage]
backend = "memory"
`)
	store, err := NewSettingsStore(tmpDir)
	require.NoError(t, err)

	settings, err := store.Load()

	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, settings.Debounce.Window)
	assert.Equal(t, domain.StorageBackendMemory, settings.Storage.Backend)
	assert.Equal(t, domain.DefaultProbeTimeout, settings.Connectivity.Timeout)
	assert.Equal(t, domain.DefaultProbeURL, settings.Connectivity.ProbeURL)
	assert.True(t, settings.Features.Enabled)
}

func TestSettingsStore_Load_FullFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `
[debounce]
window_ms = 400

[connectivity]
probe_url = "http://localhost:8080/ping"
timeout_ms = 1500
poll_interval_seconds = 10

[storage]
backend = "sqlite"
data_dir = "/var/lib/scanlog"

[features]
enabled = false
`)
	store, err := NewSettingsStore(tmpDir)
	require.NoError(t, err)

	settings, err := store.Load()

	require.NoError(t, err)
	assert.Equal(t, 400*time.Millisecond, settings.Debounce.Window)
	assert.Equal(t, "http://localhost:8080/ping", settings.Connectivity.ProbeURL)
	assert.Equal(t, 1500*time.Millisecond, settings.Connectivity.Timeout)
	assert.Equal(t, 10*time.Second, settings.Connectivity.PollInterval)
	assert.Equal(t, "/var/lib/scanlog", settings.Storage.DataDir)
	assert.False(t, settings.Features.Enabled)
}

func TestSettingsStore_Load_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `
[storage]
data_dir = "~/scans"
`)
	store, err := NewSettingsStore(tmpDir)
	require.NoError(t, err)

	settings, err := store.Load()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "scans"), settings.Storage.DataDir)
}

func TestSettingsStore_Load_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero window", "[debounce]\nwindow_ms = 0\n"},
		{"negative timeout", "[connectivity]\ntimeout_ms = -1\n"},
		{"relative probe url", "[connectivity]\nprobe_url = \"/ping\"\n"},
		{"unknown backend", "[storage]\nbackend = \"redis\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			writeConfig(t, tmpDir, tt.content)
			store, err := NewSettingsStore(tmpDir)
			require.NoError(t, err)

			_, err = store.Load()

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestSettingsStore_Load_MalformedTOML(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "[debounce\nwindow_ms = ")
	store, err := NewSettingsStore(tmpDir)
	require.NoError(t, err)

	_, err = store.Load()

	assert.Error(t, err)
}

func TestSettingsStore_SaveThenLoad(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "nested")
	store, err := NewSettingsStore(tmpDir)
	require.NoError(t, err)

	settings := domain.DefaultSettings()
	settings.Debounce.Window = 900 * time.Millisecond
	settings.Storage.Backend = domain.StorageBackendMemory
	settings.Storage.DataDir = "/tmp/scanlog"
	settings.Features.Enabled = false

	require.NoError(t, store.Save(settings))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestSettingsStore_Save_RejectsInvalid(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)

	settings := domain.DefaultSettings()
	settings.Storage.Backend = "redis"

	assert.ErrorIs(t, store.Save(settings), domain.ErrInvalidInput)
	assert.NoFileExists(t, store.Path())
}
