package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alem-hub/gradebook/config"
	"github.com/alem-hub/gradebook/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/gradebook/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|status|seed]",
	Short: "Manage the catalog and school schema",
	Long: `Apply, roll back or inspect the schema of the configured store.

  up      create tables (idempotent)
  down    drop tables (sqlite) or roll back the last migration (postgres)
  status  list tables or migrations
  seed    load the demo school roster when it is empty`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"up", "down", "status", "seed"},
	RunE:      runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if cfg.Catalog.Driver == config.DriverMemory {
		return fmt.Errorf("migrate needs a persistent driver: set catalog.driver to sqlite or postgres")
	}

	log, closeLog, err := newLogger(cfg.Observability, cmd.ErrOrStderr(), logger.LevelWarn)
	if err != nil {
		return err
	}
	defer closeLog()

	st, err := openStores(ctx, cfg.Catalog.Driver, log)
	if err != nil {
		return err
	}
	defer st.Close()

	switch args[0] {
	case "up":
		n, err := st.Migrate(ctx)
		if err != nil {
			return err
		}
		if st.pg != nil {
			fmt.Fprintf(out, "Applied %d migration(s).\n", n)
		} else {
			fmt.Fprintln(out, "Schema is up to date.")
		}

	case "down":
		if st.pg != nil {
			version, err := postgres.NewMigrator(st.pg).Rollback(ctx)
			if err != nil {
				return err
			}
			if version == 0 {
				fmt.Fprintln(out, "Nothing to roll back.")
			} else {
				fmt.Fprintf(out, "Rolled back migration %d.\n", version)
			}
			return nil
		}
		if err := st.sqlite.Drop(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Tables dropped.")

	case "status":
		if st.pg != nil {
			migrations, err := postgres.NewMigrator(st.pg).Status(ctx)
			if err != nil {
				return err
			}
			for _, m := range migrations {
				state := "pending"
				if m.IsApplied {
					state = "applied " + m.AppliedAt.Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(out, "%03d %-28s %s\n", m.Version, m.Name, state)
			}
			return nil
		}
		tables, err := st.sqlite.Tables(ctx)
		if err != nil {
			return err
		}
		if len(tables) == 0 {
			fmt.Fprintln(out, "No tables.")
		} else {
			fmt.Fprintf(out, "Tables: %s\n", strings.Join(tables, ", "))
		}

	case "seed":
		if _, err := st.Migrate(ctx); err != nil {
			return err
		}
		seeded, err := st.school.Seed(ctx)
		if err != nil {
			return err
		}
		if seeded {
			fmt.Fprintln(out, "Demo roster loaded.")
		} else {
			fmt.Fprintln(out, "Roster already present, nothing to do.")
		}

	default:
		return fmt.Errorf("unknown migrate action %q (want up, down, status or seed)", args[0])
	}

	return nil
}
