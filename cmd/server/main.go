package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/hrpanel/internal/auth"
	"github.com/JonMunkholm/hrpanel/internal/cache"
	"github.com/JonMunkholm/hrpanel/internal/cache/memory"
	cacheredis "github.com/JonMunkholm/hrpanel/internal/cache/redis"
	"github.com/JonMunkholm/hrpanel/internal/config"
	"github.com/JonMunkholm/hrpanel/internal/core"
	"github.com/JonMunkholm/hrpanel/internal/database"
	"github.com/JonMunkholm/hrpanel/internal/events"
	"github.com/JonMunkholm/hrpanel/internal/logging"
	"github.com/JonMunkholm/hrpanel/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"store", cfg.Store.Driver,
		"sync_mode", cfg.Store.SyncMode,
		"redis", cfg.UsesRedis(),
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// backend is the record store and everything that shares its connection.
type backend struct {
	gw    core.Gateway
	audit core.AuditLog
	authn auth.Authenticator
	db    web.Pinger
	close func()
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	if cfg.Store.Driver == config.DriverMemory {
		slog.Warn("using in-memory store; job postings are lost on restart")
		return &backend{
			gw:    core.NewMemoryGateway(),
			audit: core.NewMemoryAuditLog(),
			authn: auth.NewMemoryDirectory(cfg.Auth.BcryptCost),
			close: func() {},
		}, nil
	}

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	slog.Info("connected to database", "name", database.Name(cfg.Database.URL))

	if cfg.Database.AutoMigrate {
		if err := migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return &backend{
		gw:    core.NewPGGateway(pool),
		audit: core.NewPGAuditLog(pool),
		authn: auth.NewDirectory(pool, cfg.Auth.BcryptCost),
		db:    pool,
		close: pool.Close,
	}, nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	m, err := database.NewMigrator(pool)
	if err != nil {
		return err
	}
	n, err := m.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	slog.Info("schema up to date", "applied", n)
	return nil
}

// openSharedState returns the session cache and change-event bus. With
// Redis both are shared across instances.
func openSharedState(ctx context.Context, cfg *config.Config) (cache.Cache, events.Bus, func(), error) {
	opts := cache.DefaultOptions()
	opts.DefaultTTL = cfg.Session.TTL

	if !cfg.UsesRedis() {
		c := memory.New(opts)
		return c, events.NewLocalBus(), func() { _ = c.Close() }, nil
	}

	rdb, err := cacheredis.Connect(ctx, cfg.Redis.URL)
	if err != nil {
		return nil, nil, nil, err
	}
	slog.Info("connected to redis", "events_channel", cfg.Redis.Channel)
	c := cacheredis.New(rdb, opts)
	closeAll := func() {
		_ = c.Close()
		if err := rdb.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			slog.Warn("redis close failed", "error", err)
		}
	}
	return c, events.NewRedisBus(rdb, cfg.Redis.Channel), closeAll, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	catalog, err := core.LoadCatalog(cfg.Store.OptionsFile)
	if err != nil {
		return err
	}

	be, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer be.close()

	sessionCache, bus, closeShared, err := openSharedState(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeShared()

	if cfg.Auth.SeedEmail != "" && cfg.Auth.SeedPassword != "" {
		created, err := auth.Seed(ctx, be.authn, auth.RegisterRequest{
			Name:     cfg.Auth.SeedName,
			Email:    cfg.Auth.SeedEmail,
			Password: cfg.Auth.SeedPassword,
		})
		if err != nil {
			return fmt.Errorf("seed account: %w", err)
		}
		if created {
			slog.Info("seeded account", "email", cfg.Auth.SeedEmail)
		}
	}

	limiter := core.NewStoreLimiter(cfg.Store.MaxConcurrent, cfg.Store.MaxWait)
	gw := core.NewAuditedGateway(core.NewLimitedGateway(be.gw, limiter), be.audit)
	lists := core.NewLists(gw, core.NewValidator(catalog), core.SyncMode(cfg.Store.SyncMode))

	deps := web.Deps{
		Lists:    lists,
		Gateway:  gw,
		Catalog:  catalog,
		Auth:     be.authn,
		Sessions: auth.NewSessionStore(sessionCache, cfg.Session.TTL),
		Audit:    be.audit,
		Bus:      bus,
		DB:       be.db,
	}
	server := web.NewServer(cfg, deps)

	scheduler := core.NewAuditScheduler(be.audit, cfg.Audit.PurgeSchedule, cfg.Audit.RetentionDays)
	if err := scheduler.Start(ctx); err != nil {
		return err
	}
	defer scheduler.Stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return bus.Subscribe(gctx, func(e events.ChangeEvent) {
			n := lists.MarkStaleExcept(e.Origin)
			slog.Debug("job postings changed",
				"op", e.Op,
				"job_id", e.JobID,
				"stale_lists", n,
			)
		})
	})

	g.Go(func() error {
		if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if st := limiter.Status(); st.Active > 0 {
			slog.Info("waiting for store calls to finish", "active", st.Active)
		}
		if err := limiter.Drain(shutdownCtx); err != nil {
			slog.Warn("store calls did not finish in time", "error", err)
		}
		return nil
	})

	return g.Wait()
}
