// ABOUTME: Cobra command for interactive storage setup.
// ABOUTME: Launches a bubbletea TUI wizard to choose and validate the storage backend.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389-research/breather/internal/config"
	"github.com/2389-research/breather/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Choose where breather stores its data",
	Long:  "Interactive wizard to choose a storage backend (file, sqlite, redis, or memory) and its location.",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	// Environment overrides stay out of the file we write back.
	cfg, err := config.LoadFile()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	location := cfg.Storage.Path
	if cfg.Storage.GetBackend() == config.BackendRedis {
		location = cfg.Storage.RedisURL
	}

	p := tea.NewProgram(tui.NewSetupModel(cfg.Storage.Backend, location))
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final := result.(tui.SetupModel)
	if !final.ShouldSave() {
		fmt.Println("Setup cancelled.")
		return nil
	}

	backend, location := final.Result()
	chosen := tui.StorageConfig(backend, location)
	cfg.Storage.Backend = chosen.Backend
	switch backend {
	case config.BackendRedis:
		cfg.Storage.RedisURL = chosen.RedisURL
	case config.BackendMemory:
	default:
		cfg.Storage.Path = chosen.Path
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		fmt.Println("Config saved successfully.")
	} else {
		fmt.Printf("Config saved to %s\n", configPath)
	}
	return nil
}
