package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/donor-connect/internal/api/http"
	"github.com/spec-kit/donor-connect/internal/api/http/handlers"
	"github.com/spec-kit/donor-connect/internal/auth"
	"github.com/spec-kit/donor-connect/internal/cache"
	"github.com/spec-kit/donor-connect/internal/config"
	"github.com/spec-kit/donor-connect/internal/events"
	"github.com/spec-kit/donor-connect/internal/observability"
	"github.com/spec-kit/donor-connect/internal/persistence"
	"github.com/spec-kit/donor-connect/internal/repository"
	"github.com/spec-kit/donor-connect/internal/repository/memory"
	"github.com/spec-kit/donor-connect/internal/service"
	"github.com/spec-kit/donor-connect/internal/worker"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations && pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var (
		userRepo     repository.UserRepository
		requestRepo  repository.RequestRepository
		donationRepo repository.DonationRepository
	)
	if pool := pg.PoolHandle(); pool != nil {
		userRepo = repository.NewUserRepository(pool)
		requestRepo = repository.NewRequestRepository(pool)
		donationRepo = repository.NewDonationRepository(pool)
	} else {
		store := memory.NewStore()
		userRepo = store.Users()
		requestRepo = store.Requests()
		donationRepo = store.Donations()
	}

	dispatcher := events.NewInMemoryDispatcher()
	searchCache := cache.NewDonorCache(redis.Client, cfg.Redis.SearchCacheTTL(), logger)

	authService := service.NewAuthService(cfg.Auth, userRepo)
	donorService := service.NewDonorService(userRepo, donationRepo, searchCache, dispatcher)
	requestService := service.NewRequestService(requestRepo, donationRepo, userRepo, dispatcher)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Donors:         handlers.NewDonorsHandler(donorService),
		Admin:          handlers.NewAdminHandler(donorService),
		Requests:       handlers.NewRequestsHandler(requestService),
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

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
