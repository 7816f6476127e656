package main

import (
	"context"
	"fmt"

	"github.com/alem-hub/gradebook/config"
	"github.com/alem-hub/gradebook/internal/domain/book"
	"github.com/alem-hub/gradebook/internal/domain/gradebook"
	"github.com/alem-hub/gradebook/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/gradebook/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/gradebook/internal/infrastructure/persistence/sqlite"
	"github.com/alem-hub/gradebook/pkg/logger"
	"github.com/alem-hub/gradebook/pkg/retry"
)

// schoolStore is the demo school database behind --import and migrate seed.
type schoolStore interface {
	gradebook.RosterSource
	Seed(ctx context.Context) (bool, error)
}

// stores groups the repositories opened for one driver.
type stores struct {
	driver string
	books  book.Repository
	school schoolStore

	sqlite *sqlite.DB
	pg     *postgres.Connection
}

// openStores connects the backend named by driver. Nothing is migrated.
func openStores(ctx context.Context, driver string, log *logger.Logger) (*stores, error) {
	s := &stores{driver: driver}

	switch driver {
	case config.DriverMemory:
		s.books = memory.NewBookRepository()

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Catalog.SQLitePath)
		if err != nil {
			return nil, err
		}
		s.sqlite = db
		s.books = sqlite.NewBookRepository(db)
		s.school = sqlite.NewSchoolRepository(db)

	case config.DriverPostgres:
		pgCfg := postgres.DefaultConfig()
		pgCfg.URL = cfg.Database.URL
		pgCfg.MaxConns = cfg.Database.MaxConns
		pgCfg.MinConns = cfg.Database.MinConns
		pgCfg.QueryTimeout = cfg.Database.QueryTimeout

		var conn *postgres.Connection
		err := retry.ConnectRetrier(log, "postgres").Do(ctx, func(ctx context.Context) error {
			c, err := postgres.NewConnection(ctx, pgCfg)
			if err != nil {
				return err
			}
			conn = c
			return nil
		})
		if err != nil {
			return nil, err
		}
		s.pg = conn
		s.books = postgres.NewBookRepository(conn)
		s.school = postgres.NewSchoolRepository(conn)

	default:
		return nil, fmt.Errorf("unknown catalog driver %q", driver)
	}

	log.Debug("catalog store opened", logger.String("driver", driver))
	return s, nil
}

// Migrate applies the schema. Returns how many steps ran, when known.
func (s *stores) Migrate(ctx context.Context) (int, error) {
	switch {
	case s.sqlite != nil:
		return 0, s.sqlite.Migrate(ctx)
	case s.pg != nil:
		return postgres.NewMigrator(s.pg).Migrate(ctx)
	default:
		return 0, nil
	}
}

// Ping reports backend reachability; the memory store is always up.
func (s *stores) Ping(ctx context.Context) error {
	switch {
	case s.sqlite != nil:
		return s.sqlite.Ping(ctx)
	case s.pg != nil:
		return s.pg.Ping(ctx)
	default:
		return nil
	}
}

// Close releases every open connection.
func (s *stores) Close() {
	if s.sqlite != nil {
		_ = s.sqlite.Close()
	}
	if s.pg != nil {
		s.pg.Close()
	}
}
