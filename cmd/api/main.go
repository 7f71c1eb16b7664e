package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk/internal/api/http"
	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/identity"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/seed"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/internal/sla"
	"github.com/spec-kit/helpdesk/internal/store"
	"github.com/spec-kit/helpdesk/internal/worker"
)

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

	kv, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer kv.Close()

	userRepo := repository.NewUserRepository(kv)
	ticketRepo := repository.NewTicketRepository(kv)
	referenceRepo := repository.NewReferenceRepository(kv)

	if err := seed.Initialize(ctx, userRepo, ticketRepo, referenceRepo, cfg.Auth.BcryptCost, logger); err != nil {
		logger.Fatal("failed to initialize store", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	calculator := sla.NewCalculator()

	challenges := identity.NewChallengeStore(cfg.Auth.ChallengeTTL())
	identityService := identity.NewService(userRepo, challenges, dispatcher, cfg.Auth.BcryptCost)
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL())

	assigner := service.NewAssignmentService(ticketRepo, referenceRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:    ticketRepo,
		ReferenceRepo: referenceRepo,
		Assigner:      assigner,
		Calculator:    calculator,
		Dispatcher:    dispatcher,
	})
	searchService := service.NewSearchService(ticketRepo, referenceRepo)
	statsService := service.NewStatsService(ticketRepo, referenceRepo, calculator)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(tokenManager, userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, kv),
		Auth:           handlers.NewAuthHandler(identityService, tokenManager),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Search:         handlers.NewSearchHandler(searchService),
		Stats:          handlers.NewStatsHandler(statsService),
		Reference:      handlers.NewReferenceHandler(referenceRepo),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.KV, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendRedis:
		return store.NewRedis(cfg.Redis, cfg.Store.KeyPrefix, logger), nil
	case config.StoreBackendPostgres:
		pg, err := store.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := store.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return pg, nil
	default:
		logger.Info("using in-memory store; data will not survive restarts")
		return store.NewMemory(), nil
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
