package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alem-hub/gradebook/internal/application/command"
	"github.com/alem-hub/gradebook/internal/application/query"
	"github.com/alem-hub/gradebook/internal/domain/book"
	"github.com/alem-hub/gradebook/internal/domain/shared"
	"github.com/alem-hub/gradebook/internal/infrastructure/messaging"
	"github.com/alem-hub/gradebook/internal/infrastructure/metrics"
	"github.com/alem-hub/gradebook/internal/infrastructure/persistence/localcache"
	redisstore "github.com/alem-hub/gradebook/internal/infrastructure/persistence/redis"
	httpapi "github.com/alem-hub/gradebook/internal/interface/http"
	"github.com/alem-hub/gradebook/internal/interface/http/handlers"
	"github.com/alem-hub/gradebook/pkg/circuitbreaker"
	"github.com/alem-hub/gradebook/pkg/logger"
	"github.com/alem-hub/gradebook/pkg/retry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the book catalog HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "HTTP port (default from config: 8080)")
	_ = v.BindPFlag("http.port", serveCmd.Flags().Lookup("port"))
}

// eventBus is satisfied by both the in-process and the Redis-backed bus.
type eventBus interface {
	shared.EventPublisher
	shared.EventSubscriber
	Close() error
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ─────────────────────────────────────────────────────────────────────────
	// 1. LOGGER & METRICS
	// ─────────────────────────────────────────────────────────────────────────
	log, closeLog, err := newLogger(cfg.Observability, cmd.ErrOrStderr(), logger.LevelDebug)
	if err != nil {
		return err
	}
	defer closeLog()

	var m *metrics.Metrics
	if cfg.Observability.MetricsEnabled {
		m = metrics.New()
	}

	checker := handlers.NewCompositeHealthChecker(cfg.App.Version)

	// ─────────────────────────────────────────────────────────────────────────
	// 2. STORAGE
	// ─────────────────────────────────────────────────────────────────────────
	st, err := openStores(ctx, cfg.Catalog.Driver, log)
	if err != nil {
		return fmt.Errorf("open catalog store: %w", err)
	}
	defer st.Close()

	if n, err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate catalog store: %w", err)
	} else if n > 0 {
		log.Info("migrations applied", logger.Int("count", n))
	}
	checker.AddCheck("store", handlers.NewPingCheck(st))

	// ─────────────────────────────────────────────────────────────────────────
	// 3. CACHE & EVENTS
	// ─────────────────────────────────────────────────────────────────────────
	var (
		cache book.Cache
		bus   eventBus
	)

	rc, err := openRedis(ctx, log)
	if err != nil {
		return err
	}
	if rc != nil {
		defer rc.Close()
		checker.AddCheck("cache", handlers.NewPingCheck(rc))
		breaker := circuitbreaker.CacheBreaker(func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		}, redisstore.IsBreakerFailure)
		cache = redisstore.NewBookCache(rc, redisstore.WithBreaker(breaker))
	} else {
		cache = localcache.NewBookCache(cfg.Catalog.CacheTTL, 0)
	}

	busCfg := messaging.InMemoryEventBusConfig{
		AsyncMode:      true,
		WorkerPoolSize: 4,
		Logger:         log,
	}
	if rc != nil && cfg.Redis.Events {
		bus, err = messaging.NewRedisEventBus(messaging.RedisEventBusConfig{
			Client:         redisstore.NewPubSub(rc),
			LocalBusConfig: busCfg,
			Logger:         log,
		})
		if err != nil {
			return fmt.Errorf("start redis event bus: %w", err)
		}
	} else {
		bus = messaging.NewInMemoryEventBus(busCfg)
	}
	defer bus.Close()

	if err := messaging.NewAuditLogger(log).Attach(bus); err != nil {
		return err
	}
	if m != nil {
		if err := m.Attach(bus); err != nil {
			return err
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. HTTP
	// ─────────────────────────────────────────────────────────────────────────
	srvCfg := httpapi.DefaultConfig()
	srvCfg.Host = cfg.HTTP.Host
	srvCfg.Port = cfg.HTTP.Port
	srvCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	srvCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	srvCfg.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	srvCfg.APIKeyHash = cfg.HTTP.APIKeyHash
	srvCfg.EnableMetrics = m != nil
	srvCfg.Version = cfg.App.Version

	server := httpapi.NewServer(srvCfg, httpapi.Dependencies{
		CreateBookHandler:  command.NewCreateBookHandler(st.books, bus),
		UpdateBookHandler:  command.NewUpdateBookHandler(st.books, cache, bus),
		DeleteBookHandler:  command.NewDeleteBookHandler(st.books, cache, bus),
		GetBookHandler:     query.NewGetBookHandler(st.books, cache, cfg.Catalog.CacheTTL, m),
		ListBooksHandler:   query.NewListBooksHandler(st.books),
		SearchBooksHandler: query.NewSearchBooksHandler(st.books),
		Logger:             log,
		Metrics:            m,
		HealthChecker:      checker,
	})

	errCh := server.StartAsync()

	log.Info("gradebook catalog is running",
		logger.String("http_address", server.Address()),
		logger.String("driver", cfg.Catalog.Driver),
		logger.Bool("redis", rc != nil),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 5. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	select {
	case <-ctx.Done():
		log.Info("received shutdown signal")
	case err := <-errCh:
		if err != nil {
			log.Error("server error", logger.Err(err))
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		return err
	}

	log.Info("shutdown completed successfully")
	return nil
}

// openRedis connects when Redis is enabled, retrying while it boots.
// A nil cache means Redis is disabled.
func openRedis(ctx context.Context, log *logger.Logger) (*redisstore.Cache, error) {
	if cfg.Redis.Disabled {
		return nil, nil
	}

	rcfg := redisstore.DefaultConfig()
	rcfg.URL = cfg.Redis.URL
	rcfg.Host = cfg.Redis.Host
	rcfg.Port = cfg.Redis.Port
	rcfg.Password = cfg.Redis.Password
	rcfg.DB = cfg.Redis.DB
	if cfg.Redis.PoolSize > 0 {
		rcfg.PoolSize = cfg.Redis.PoolSize
	}

	var rc *redisstore.Cache
	err := retry.ConnectRetrier(log, "redis").Do(ctx, func(context.Context) error {
		c, err := redisstore.NewCache(rcfg)
		if err != nil {
			return err
		}
		rc = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return rc, nil
}
