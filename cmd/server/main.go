// @title        Invoice Dashboard API
// @version      1.0
// @description  Invoice management and credential sign-in for the billing dashboard.
// @BasePath     /
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/invoice-dashboard/internal/api"
	"github.com/99minutos/invoice-dashboard/internal/core/ports"
	"github.com/99minutos/invoice-dashboard/internal/core/service"
	"github.com/99minutos/invoice-dashboard/internal/infrastructure/cache"
	"github.com/99minutos/invoice-dashboard/internal/infrastructure/db/mongo"
	"github.com/99minutos/invoice-dashboard/internal/infrastructure/db/postgres"
	"github.com/99minutos/invoice-dashboard/internal/infrastructure/db/redis"
	"github.com/99minutos/invoice-dashboard/internal/infrastructure/queue"
	"github.com/99minutos/invoice-dashboard/internal/pkg/config"
	"github.com/99minutos/invoice-dashboard/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "invoice-dashboard",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	db, err := postgres.Connect(ctx, postgres.Config{
		URL:             cfg.Postgres.URL,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info().Msg("connected to postgres")

	var (
		rdb   *goredis.Client
		pages ports.PageCache
	)
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		pages = redis.NewPageCache(rdb, cfg.Cache.TTL)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("page cache backed by redis")
	default:
		pages = cache.NewMemoryPageCache(cfg.Cache.TTL)
		log.Info().Msg("page cache in memory")
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	var (
		mdb   *mongodriver.Database
		audit ports.AuditSink
	)
	if cfg.AuditEnabled() {
		client, database, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() { _ = mongo.Close(client) }()
		mdb = database

		auditRepo := mongo.NewAuditRepository(mdb)
		if err := auditRepo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("audit indexes not created")
		}

		dispatcher := queue.NewDispatcher(cfg.Audit.Workers, service.NewAuditService(auditRepo, log), log)
		dispatcher.Start(workerCtx)
		defer func() {
			cancelWorkers()
			dispatcher.Wait()
		}()
		audit = dispatcher
		log.Info().Int("workers", cfg.Audit.Workers).Msg("audit trail enabled")
	}

	e := api.NewRouter(api.Dependencies{
		DB:            db,
		Mongo:         mdb,
		Redis:         rdb,
		Pages:         cache.Instrumented(pages),
		Audit:         audit,
		SessionSecret: cfg.Session.Secret,
		SessionTTL:    cfg.Session.TTL,
		SecureCookies: cfg.IsProduction(),
		Log:           log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "http shutdown")
	}
	return nil
}
