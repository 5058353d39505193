// Command scanlog records decoded QR codes and barcodes into a local history.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/custodia-labs/scanlog/internal/adapters/driven/config/file"
	"github.com/custodia-labs/scanlog/internal/adapters/driven/reachability"
	"github.com/custodia-labs/scanlog/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scanlog/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/scanlog/internal/adapters/driving/cli"
	"github.com/custodia-labs/scanlog/internal/core/domain"
	"github.com/custodia-labs/scanlog/internal/core/ports/driven"
	"github.com/custodia-labs/scanlog/internal/core/services"
	"github.com/custodia-labs/scanlog/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settingsStore, err := file.NewSettingsStore("")
	if err != nil {
		return fmt.Errorf("failed to create settings store: %w", err)
	}
	settings := loadSettings(settingsStore, os.Stderr)

	// Storage
	var persistence driven.PersistenceAdapter
	switch settings.Storage.Backend {
	case domain.StorageBackendMemory:
		persistence = memory.NewPersistence()
	default:
		store, err := sqlite.NewStore(settings.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("failed to open history store: %w", err)
		}
		defer store.Close()
		persistence = store.Persistence()
	}

	history := services.NewHistoryService(persistence)
	defer history.Close()
	if err := loadHistory(ctx, history, os.Stderr); err != nil {
		return err
	}

	// Connectivity
	var reach driven.Reachability
	probe, err := reachability.NewHTTPProbe(settings.Connectivity.ProbeURL, settings.Connectivity.PollInterval)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: connectivity probe unavailable, reporting offline: %v\n", err)
	} else {
		reach = probe
	}

	// Live updates start only for the commands that follow connectivity.
	connectivity := services.NewConnectivityProbe(reach, clockwork.NewRealClock(), settings.Connectivity.Timeout)
	defer connectivity.Stop()

	gate := services.NewFeatureGate(connectivity, settings.Features.Enabled)
	gate.Start()
	defer gate.Stop()

	orchestrator := services.NewOrchestrator(history, clockwork.NewRealClock(), settings.Debounce.Window, services.SessionHooks{
		OnAppend: func(r domain.ScanRecord) {
			logger.Debug("recorded %s %s as %s", r.ID, r.ContentType, r.DisplayValue)
		},
		OnError: func(payload string, err error) {
			logger.Error("could not save scan %q: %v", payload, err)
		},
	})
	defer orchestrator.Stop()

	cli.SetServices(cli.Services{
		History:       history,
		Orchestrator:  orchestrator,
		Connectivity:  connectivity,
		Monitor:       connectivity,
		Gate:          gate,
		SettingsStore: settingsStore,
		Settings:      settings,
	})
	cli.SetVersion(version)

	return cli.Execute(ctx)
}

// loadSettings reads the config file. A broken file is reported on w and
// the defaults are used.
func loadSettings(store driven.SettingsStore, w io.Writer) domain.Settings {
	settings, err := store.Load()
	if err != nil {
		fmt.Fprintf(w, "Warning: using default settings: %v\n", err)
		return domain.DefaultSettings()
	}
	return settings
}

// loadHistory loads the persisted history. Corrupt state is reported on w
// and the store starts empty; any other failure is returned.
func loadHistory(ctx context.Context, history *services.HistoryService, w io.Writer) error {
	_, err := history.LoadInitial(ctx)
	if err == nil {
		return nil
	}
	var warning *domain.CorruptStateWarning
	if !errors.As(err, &warning) {
		return fmt.Errorf("failed to load history: %w", err)
	}
	fmt.Fprintf(w, "Warning: starting with an empty history, the saved one could not be read: %v\n", warning)
	return nil
}
