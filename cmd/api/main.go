package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httpapi "github.com/livetrack/support-service/internal/api/http"
	"github.com/livetrack/support-service/internal/api/http/handlers"
	"github.com/livetrack/support-service/internal/auth"
	"github.com/livetrack/support-service/internal/config"
	"github.com/livetrack/support-service/internal/events"
	"github.com/livetrack/support-service/internal/observability"
	"github.com/livetrack/support-service/internal/persistence"
	"github.com/livetrack/support-service/internal/repository"
	"github.com/livetrack/support-service/internal/service"
	"github.com/livetrack/support-service/internal/storage"
	"github.com/livetrack/support-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	postgres, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer postgres.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, postgres.PoolHandle(), logger); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	blobs, err := storage.NewLocalBlobStore(cfg.Blob)
	if err != nil {
		logger.Fatal("blob store init failed", zap.Error(err))
	}

	stores := repository.NewStores(postgres.PoolHandle())
	txRunner := repository.NewTxRunner(postgres.PoolHandle())

	dispatcher := events.NewInMemoryDispatcher()
	notifications := service.NewNotificationService(cfg.Notification, logger)
	worker.NewNotificationWorker(notifications, logger).Register(dispatcher)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	ticketService := service.NewTicketService(service.TicketDependencies{
		Stores:     stores,
		TxRunner:   txRunner,
		Blobs:      blobs,
		Cache:      redis,
		Dispatcher: dispatcher,
	})
	adminService := service.NewAdminService(stores.Admins, stores.Replies, cfg.Auth.BcryptCost)
	customerService := service.NewCustomerService(stores.Customers, stores.Distributors, txRunner)
	distributorService := service.NewDistributorService(stores.Distributors)
	authService := service.NewAuthService(stores.Admins, tokens)

	metrics := observability.NewMetrics()

	app := httpapi.NewApp(httpapi.RouterDependencies{
		Config:         cfg,
		Logger:         logger,
		Metrics:        metrics,
		AuthMiddleware: auth.NewAuthMiddleware(tokens, stores.Admins),
		Health:         handlers.NewHealthHandler(cfg.App.Version, postgres, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Admins:         handlers.NewAdminsHandler(adminService, ticketService),
		Customers:      handlers.NewCustomersHandler(customerService),
		Distributors:   handlers.NewDistributorsHandler(distributorService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
	})

	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("stopped")
}
