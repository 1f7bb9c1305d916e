package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/mwhayford/rental-service/internal/api/http"
	"github.com/mwhayford/rental-service/internal/api/http/handlers"
	"github.com/mwhayford/rental-service/internal/auth"
	"github.com/mwhayford/rental-service/internal/config"
	"github.com/mwhayford/rental-service/internal/events"
	"github.com/mwhayford/rental-service/internal/jobs"
	"github.com/mwhayford/rental-service/internal/observability"
	"github.com/mwhayford/rental-service/internal/persistence"
	"github.com/mwhayford/rental-service/internal/repository"
	"github.com/mwhayford/rental-service/internal/search"
	"github.com/mwhayford/rental-service/internal/service"
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	propertyRepo := repository.NewPropertyRepository(pool)
	leaseRepo := repository.NewLeaseRepository(pool)
	workOrderRepo := repository.NewWorkOrderRepository(pool)
	applicationRepo := repository.NewApplicationRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	subscriptionRepo := repository.NewSubscriptionRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)
	if mirror := events.NewKafkaMirror(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger); mirror != nil {
		mirror.Register(dispatcher)
		defer mirror.Close() //nolint:errcheck
	}

	queue := jobs.NewQueue(redis.Client, cfg.Redis.JobQueue, logger)
	emailWorker := jobs.NewEmailWorker(queue, cfg.Notification, logger)
	go emailWorker.Run(ctx)

	authService := service.NewAuthService(cfg.Auth, userRepo)
	propertyService := service.NewPropertyService(service.PropertyDependencies{
		PropertyRepo: propertyRepo,
		SettingsRepo: settingsRepo,
		Dispatcher:   dispatcher,
	})
	applicationService := service.NewApplicationService(service.ApplicationDependencies{
		ApplicationRepo: applicationRepo,
		PropertyRepo:    propertyRepo,
		SettingsRepo:    settingsRepo,
		Dispatcher:      dispatcher,
		Enqueuer:        queue,
		DefaultCurrency: cfg.Billing.DefaultCurrency,
	})
	leaseService := service.NewLeaseService(service.LeaseDependencies{
		LeaseRepo:    leaseRepo,
		PropertyRepo: propertyRepo,
		UserRepo:     userRepo,
		Dispatcher:   dispatcher,
		Enqueuer:     queue,
		Logger:       logger,
	})
	workOrderService := service.NewWorkOrderService(service.WorkOrderDependencies{
		WorkOrderRepo: workOrderRepo,
		LeaseRepo:     leaseRepo,
		PropertyRepo:  propertyRepo,
		UserRepo:      userRepo,
		Dispatcher:    dispatcher,
		Enqueuer:      queue,
	})
	paymentService := service.NewPaymentService(service.PaymentDependencies{
		PaymentRepo:      paymentRepo,
		SubscriptionRepo: subscriptionRepo,
		Applications:     applicationService,
		Gateway:          service.NewLocalGateway(cfg.Billing.GatewayKey),
		Dispatcher:       dispatcher,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notificationService.RegisterHandlers()

	if indexer := search.NewIndexer(cfg.Search, propertyRepo, logger); indexer != nil {
		indexer.Register(dispatcher)
	}

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Properties:     handlers.NewPropertiesHandler(propertyService),
		Leases:         handlers.NewLeasesHandler(leaseService),
		WorkOrders:     handlers.NewWorkOrdersHandler(workOrderService),
		Applications:   handlers.NewApplicationsHandler(applicationService, paymentService),
		Payments:       handlers.NewPaymentsHandler(paymentService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
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
