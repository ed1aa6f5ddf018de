package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/citisolve/complaint-service/internal/api/http"
	"github.com/citisolve/complaint-service/internal/api/http/handlers"
	"github.com/citisolve/complaint-service/internal/config"
	"github.com/citisolve/complaint-service/internal/events"
	"github.com/citisolve/complaint-service/internal/observability"
	"github.com/citisolve/complaint-service/internal/persistence"
	"github.com/citisolve/complaint-service/internal/repository"
	"github.com/citisolve/complaint-service/internal/service"
	"github.com/citisolve/complaint-service/internal/session"
	"github.com/citisolve/complaint-service/internal/storage"
	"github.com/citisolve/complaint-service/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	objects, err := storage.NewGCSStore(ctx, cfg.Storage.Bucket, cfg.Storage.CredentialsFile)
	if err != nil {
		logger.Fatal("failed to init object storage", zap.Error(err))
	}
	defer objects.Close() //nolint:errcheck

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	complaintRepo := repository.NewComplaintRepository(pool)
	supportRepo := repository.NewSupportMessageRepository(pool)

	sessionStore := session.NewRedisStore(redis.Client)
	sessionManager := session.NewManager(sessionStore, cfg.Session)

	dispatcher := events.NewInMemoryDispatcher(logger)
	mailer := service.NewMailer(cfg.Mail, logger)

	authService := service.NewAuthService(userRepo, cfg.Session.BcryptCost, logger)
	complaintService := service.NewComplaintService(complaintRepo, userRepo, objects, dispatcher, logger)
	statsService := service.NewStatsService(complaintRepo, userRepo)
	supportService := service.NewSupportService(supportRepo, dispatcher, logger)
	notificationService := service.NewNotificationService(dispatcher, mailer, logger, cfg.Mail)
	notificationService.RegisterHandlers()

	reconciler := worker.NewReconciler(userRepo, logger, cfg.Reconcile.Schedule)
	if err := reconciler.Start(); err != nil {
		logger.Fatal("failed to start reconciliation job", zap.Error(err))
	}
	defer reconciler.Stop()

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:       handlers.NewAuthHandler(authService, sessionManager, notificationService, logger),
		Complaints: handlers.NewComplaintsHandler(complaintService, statsService),
		Staff:      handlers.NewStaffHandler(complaintService, statsService),
		Admin:      handlers.NewAdminHandler(complaintService, statsService, authService),
		Support:    handlers.NewSupportHandler(supportService),
		User:       handlers.NewUserHandler(authService, sessionManager, logger),
		Sessions:   sessionManager,
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
