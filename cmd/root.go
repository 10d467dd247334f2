// Package cmd implements the outfit CLI commands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/theirongolddev/outfit/internal/config"
	"github.com/theirongolddev/outfit/internal/store"
	"github.com/theirongolddev/outfit/internal/tui/theme"

	"github.com/spf13/cobra"
)

var (
	flagDBPath   string
	flagQuiet    bool
	flagLogLevel string
)

// cfg is the loaded configuration, available to every subcommand.
var cfg = config.DefaultConfig()

// closeLog releases the log file opened by setupLogging, if any.
var closeLog = func() {}

var rootCmd = &cobra.Command{
	Use:   "outfit",
	Short: "Experiment tracker for machine learning runs",
	Long:  "Record experiments with their parameters, outputs and scores, rank them, and compare a score against one varying parameter.",

	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		theme.SetActive(cfg.Appearance.Theme)

		level := cfg.Log.Level
		if cmd.Flags().Changed("log-level") {
			level = flagLogLevel
		}
		closer, err := setupLogging(level, cfg.Log.File)
		if err != nil {
			return err
		}
		closeLog = closer
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		closeLog()
	},
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDBPath, "db", "d", "", "Database path (default from config or $OUTFIT_DB)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
}

// dbPath resolves the database location: flag, env var, config, default.
func dbPath() string {
	if flagDBPath != "" {
		return flagDBPath
	}
	return config.DBPath(cfg)
}

// openStore opens the database, creating it and its schema if needed.
func openStore() (*store.Store, error) {
	path := dbPath()
	s, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("store opened", "path", path)
	return s, nil
}

// status prints a progress line on stderr unless --quiet is set.
func status(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, "  "+format+"\n", args...)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
