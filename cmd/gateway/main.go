package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/zengest/platform/internal/api/http"
	"github.com/zengest/platform/internal/api/http/handlers"
	"github.com/zengest/platform/internal/bus"
	"github.com/zengest/platform/internal/config"
	"github.com/zengest/platform/internal/gate"
	"github.com/zengest/platform/internal/observability"
	"github.com/zengest/platform/internal/persistence"
)

// The gateway is the front-facing edge process. It never holds credentials:
// authentication decisions are delegated to the identity authority over the
// bus, and the gate fails closed on any ambiguity.
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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	client := bus.NewClient(redis.Client, cfg.Bus.RequestTimeout(), metrics)
	requestGate := gate.New(gate.NewBusVerifier(client))

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name+"-gateway", cfg.App.Version, nil, redis),
		Auth:       handlers.NewAuthHandler(client, *cfg),
		Identities: handlers.NewIdentitiesHandler(client),
		Orders:     handlers.NewOrdersHandler(client),
		Gate:       requestGate,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
