package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scanlog/internal/core/domain"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and initialise configuration",
	Long:  `Inspect the settings scanlog runs with, or write a config file with the defaults.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	s := settings

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Debounce]")
	cmd.Printf("  Window: %s\n", s.Debounce.Window)
	cmd.Println()

	cmd.Println("[Connectivity]")
	cmd.Printf("  Probe URL: %s\n", s.Connectivity.ProbeURL)
	cmd.Printf("  Timeout: %s\n", s.Connectivity.Timeout)
	cmd.Printf("  Poll Interval: %s\n", s.Connectivity.PollInterval)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", s.Storage.Backend.Description())
	if s.Storage.Backend == domain.StorageBackendSQLite {
		dataDir := s.Storage.DataDir
		if dataDir == "" {
			dataDir = "~/.scanlog/data"
		}
		cmd.Printf("  Data Dir: %s\n", dataDir)
	}
	cmd.Println()

	cmd.Println("[Features]")
	if s.Features.Enabled {
		cmd.Printf("  Enabled: yes\n")
	} else {
		cmd.Printf("  Enabled: no\n")
	}
	cmd.Println()

	if err := s.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	}
	if settingsStore != nil {
		cmd.Printf("Config file: %s\n", settingsStore.Path())
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if settingsStore == nil {
		return errors.New("settings store not configured")
	}
	cmd.Println(settingsStore.Path())
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if settingsStore == nil {
		return errors.New("settings store not configured")
	}

	path := settingsStore.Path()
	if _, err := os.Stat(path); err == nil && !configInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := settingsStore.Save(domain.DefaultSettings()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	cmd.Printf("Wrote %s\n", path)
	return nil
}
