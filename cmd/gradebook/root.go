package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alem-hub/gradebook/config"
	"github.com/alem-hub/gradebook/pkg/logger"
)

var (
	version = "dev"
	cfgFile string
	v       = config.NewViper()
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gradebook",
	Short: "Student grade tracker and book catalog service",
	Long: `gradebook runs an interactive student grade tracker in the terminal
and, with "serve", a small book catalog HTTP API.`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	RunE:              runTracker,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./"+config.DefaultFile+" when present)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("catalog-driver", "", "catalog storage: memory, sqlite, postgres")

	_ = v.BindPFlag("observability.log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("catalog.driver", rootCmd.PersistentFlags().Lookup("catalog-driver"))

	addTrackerFlags(rootCmd)

	rootCmd.AddCommand(trackerCmd, serveCmd, migrateCmd, versionCmd)
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	if err := config.ReadFile(v, cfgFile); err != nil {
		return err
	}

	loaded, err := config.Load(v)
	if err != nil {
		return err
	}
	if version != "dev" {
		loaded.App.Version = version
	}

	cfg = loaded
	return nil
}

// newLogger builds the process logger from observability settings. When no
// log file is configured, output goes to fallback at no less than minLevel.
func newLogger(obs config.ObservabilityConfig, fallback io.Writer, minLevel logger.Level) (*logger.Logger, func(), error) {
	level := logger.ParseLevel(obs.LogLevel)
	out := fallback
	closeFn := func() {}

	if obs.LogFile != "" {
		f, err := os.OpenFile(obs.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = func() { _ = f.Close() }
	} else if level < minLevel {
		level = minLevel
	}

	log := logger.New(logger.Options{
		Output:    out,
		Level:     level,
		Format:    logger.Format(obs.LogFormat),
		AddCaller: obs.LogFormat == string(logger.FormatJSON),
	})

	return log, func() {
		_ = log.Sync()
		closeFn()
	}, nil
}
