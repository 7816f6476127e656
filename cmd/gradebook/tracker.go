package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alem-hub/gradebook/config"
	"github.com/alem-hub/gradebook/internal/domain/gradebook"
	"github.com/alem-hub/gradebook/internal/infrastructure/messaging"
	"github.com/alem-hub/gradebook/internal/interface/console"
	"github.com/alem-hub/gradebook/pkg/logger"
)

var (
	noColor    bool
	importFrom string
)

var trackerCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Run the interactive student grade tracker (default)",
	RunE:  runTracker,
}

func init() {
	addTrackerFlags(trackerCmd)
}

func addTrackerFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	cmd.Flags().StringVar(&importFrom, "import", "",
		"preload the roster from a database: sqlite or postgres")
}

func runTracker(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// Диагностика не должна мешать диалогу: без файла лога только WARN+ в stderr.
	log, closeLog, err := newLogger(cfg.Observability, cmd.ErrOrStderr(), logger.LevelWarn)
	if err != nil {
		return err
	}
	defer closeLog()

	bus := messaging.NewInMemoryEventBus(messaging.InMemoryEventBusConfig{Logger: log})
	defer bus.Close()

	if err := messaging.NewAuditLogger(log).Attach(bus); err != nil {
		return fmt.Errorf("attach audit logger: %w", err)
	}

	tracker := console.NewTracker(console.Config{
		Color: cfg.Tracker.Color && !noColor,
	}, console.Dependencies{
		Registry:  gradebook.NewRegistry(),
		Publisher: bus,
		Logger:    log,
		Input:     cmd.InOrStdin(),
		Output:    cmd.OutOrStdout(),
	})

	if importFrom != "" {
		if err := importRoster(ctx, tracker, importFrom, log); err != nil {
			return err
		}
	}

	return tracker.Run(ctx)
}

func importRoster(ctx context.Context, tracker *console.Tracker, driver string, log *logger.Logger) error {
	switch driver {
	case config.DriverSQLite, config.DriverPostgres:
	default:
		return fmt.Errorf("--import must be sqlite or postgres (got %q)", driver)
	}

	stores, err := openStores(ctx, driver, log)
	if err != nil {
		return err
	}
	defer stores.Close()

	if _, err := stores.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate %s: %w", driver, err)
	}

	if _, err := tracker.Import(ctx, stores.school); err != nil {
		return fmt.Errorf("import roster: %w", err)
	}
	return nil
}
