package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/aryaminakshi71/helpdesk/internal/api/http"
	"github.com/aryaminakshi71/helpdesk/internal/api/http/handlers"
	"github.com/aryaminakshi71/helpdesk/internal/auth"
	"github.com/aryaminakshi71/helpdesk/internal/cache"
	"github.com/aryaminakshi71/helpdesk/internal/config"
	"github.com/aryaminakshi71/helpdesk/internal/events"
	"github.com/aryaminakshi71/helpdesk/internal/notification"
	"github.com/aryaminakshi71/helpdesk/internal/observability"
	"github.com/aryaminakshi71/helpdesk/internal/persistence"
	"github.com/aryaminakshi71/helpdesk/internal/repository"
	"github.com/aryaminakshi71/helpdesk/internal/service"
	"github.com/aryaminakshi71/helpdesk/internal/sla"
	"github.com/aryaminakshi71/helpdesk/internal/worker"
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
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	slaRepo := repository.NewSLAStatusRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	tagRepo := repository.NewTagRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	orgRepo := repository.NewOrganizationRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	detailCache := cache.NewRedisCache(redis.Client, logger)
	dispatcher := events.NewInMemoryDispatcher(logger)

	mailer := notification.NewLogMailer(logger, cfg.Notification.EmailFrom)
	templates := notification.Templates{PortalURL: cfg.Notification.PortalBaseURL}
	notificationService := notification.NewService(mailer, templates, logger)
	worker.StartNotificationWorker(notificationService, dispatcher)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		CommentRepo:    commentRepo,
		SLARepo:        slaRepo,
		AttachmentRepo: attachmentRepo,
		TagRepo:        tagRepo,
		UserRepo:       userRepo,
		Cache:          detailCache,
		Dispatcher:     dispatcher,
		Policy: sla.Policy{
			AtRiskWindow:    cfg.SLA.AtRiskWindow(),
			AtRiskThreshold: cfg.SLA.AtRiskThreshold,
		},
		DetailTTL: cfg.SLA.DetailCacheTTL(),
		Logger:    logger,
	})
	dashboardService := service.NewDashboardService(dashboardRepo, userRepo, nil)
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo: userRepo,
		OrgRepo:  orgRepo,
	})
	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
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
