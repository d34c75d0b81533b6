// ABOUTME: Root Cobra command and global state for the breather CLI.
// ABOUTME: Sets up lifecycle hooks for config loading, logging, and journal initialization.
package main

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/2389-research/breather/internal/app"
	"github.com/2389-research/breather/internal/config"
	"github.com/2389-research/breather/internal/logging"
)

var globalConfig *config.Config
var globalApp *app.App
var logger hclog.Logger = logging.Discard()

// Commands that never touch the journals.
var noStorageCommands = map[string]bool{
	"help":       true,
	"completion": true,
	"setup":      true,
	"catalog":    true,
}

var rootCmd = &cobra.Command{
	Use:   "breather",
	Short: "Daily mood tracker and absence log",
	Long: `
 _                      _   _
| |__  _ __ ___  __ _| |_| |__   ___ _ __
| '_ \| '__/ _ \/ _` + "`" + ` | __| '_ \ / _ \ '__|
| |_) | | |  __/ (_| | |_| | | |  __/ |
|_.__/|_|  \___|\__,_|\__|_| |_|\___|_|

One mood and at most one absence per day, kept on this device.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noStorageCommands[cmd.Name()] {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		globalConfig = cfg

		logger = logging.New(logging.Options{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
		})

		a, err := app.New(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		globalApp = a
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		closeApp(cmd.ErrOrStderr())
		return nil
	},
}

// closeApp drains pending writes and reports any that failed. Safe to call twice.
func closeApp(stderr io.Writer) {
	if globalApp == nil {
		return
	}
	if err := globalApp.Close(); err != nil {
		_, _ = fmt.Fprintf(stderr, "Warning: %v\n", err)
	}
	if err := globalApp.WriteErrors(); err != nil {
		_, _ = fmt.Fprintf(stderr, "Warning: some changes were not saved: %v\n", err)
	}
	globalApp = nil
}
