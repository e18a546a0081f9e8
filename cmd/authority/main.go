package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/zengest/platform/internal/api/http"
	"github.com/zengest/platform/internal/api/http/handlers"
	"github.com/zengest/platform/internal/api/rpc"
	"github.com/zengest/platform/internal/bus"
	"github.com/zengest/platform/internal/config"
	"github.com/zengest/platform/internal/events"
	"github.com/zengest/platform/internal/observability"
	"github.com/zengest/platform/internal/persistence"
	"github.com/zengest/platform/internal/repository"
	"github.com/zengest/platform/internal/service"
	"github.com/zengest/platform/internal/worker"
)

// The identity authority owns the credential store and serves the auth.*
// bus subjects. It exposes HTTP only for health probes; everything else
// arrives over the bus.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	identityRepo := repository.NewIdentityRepository(pg.PoolHandle())
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger)

	sessions := service.NewSessionService(*cfg, service.SessionDependencies{
		IdentityRepo: identityRepo,
		Dispatcher:   dispatcher,
	})

	metrics := observability.NewMetrics()
	server := bus.NewServer(redis.Client, logger, metrics, cfg.Bus)
	rpc.NewAuthHandler(sessions).Register(server)
	server.Start(ctx)
	logger.Info("identity authority serving bus subjects")

	app := fiber.New()
	healthHandler := handlers.NewHealthHandler(cfg.App.Name+"-authority", cfg.App.Version, pg, redis)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	app.Get("/health/live", healthHandler.Live)
	app.Get("/health/ready", healthHandler.Ready)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	server.Wait()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
