package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/campus-kit/helpdesk/internal/api/http"
	"github.com/campus-kit/helpdesk/internal/api/http/handlers"
	"github.com/campus-kit/helpdesk/internal/auth"
	"github.com/campus-kit/helpdesk/internal/config"
	"github.com/campus-kit/helpdesk/internal/events"
	"github.com/campus-kit/helpdesk/internal/facade"
	"github.com/campus-kit/helpdesk/internal/observability"
	"github.com/campus-kit/helpdesk/internal/persistence"
	"github.com/campus-kit/helpdesk/internal/repository"
	"github.com/campus-kit/helpdesk/internal/seed"
	"github.com/campus-kit/helpdesk/internal/service"
	"github.com/campus-kit/helpdesk/internal/storage"
	"github.com/campus-kit/helpdesk/internal/worker"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the helpdesk HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := observability.NewLogger(cfg.Logger)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Sync() //nolint:errcheck

			return serve(cmd.Context(), cfg, logger)
		},
	}
}

type stores struct {
	requests      repository.RequestRepository
	announcements repository.AnnouncementRepository
	chat          repository.ChatRepository
	accounts      repository.AccountRepository
}

func openStores(ctx context.Context, cfg *config.Config, pg *persistence.Postgres, rdb *persistence.Redis, logger *zap.Logger) (stores, error) {
	s := stores{
		requests:      repository.NewMemoryRequestRepository(),
		announcements: repository.NewMemoryAnnouncementRepository(),
		chat:          repository.NewMemoryChatRepository(),
		accounts:      repository.NewMemoryAccountRepository(),
	}
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				return s, fmt.Errorf("run migrations: %w", err)
			}
		}
		s.requests = repository.NewRequestRepository(pg.PoolHandle())
		s.announcements = repository.NewAnnouncementRepository(pg.PoolHandle())
		s.chat = repository.NewChatRepository(pg.PoolHandle())
		s.accounts = repository.NewAccountRepository(pg.PoolHandle())
	}
	if rdb.Enabled() {
		s.chat = repository.NewRedisChatRepository(rdb.Client)
	}
	logger.Info("stores selected",
		zap.Bool("postgres", pg.Enabled()),
		zap.Bool("redis_chat", rdb.Enabled()),
	)
	return s, nil
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()

	rdb, err := persistence.NewRedis(ctx, cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rdb.Close()

	st, err := openStores(ctx, cfg, pg, rdb, logger)
	if err != nil {
		return err
	}

	files, err := storage.NewDiskStore(cfg.Storage.Dir, cfg.Storage.BaseURL, cfg.Storage.MaxFileBytes)
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.Start(worker.Dependencies{
		Dispatcher:    dispatcher,
		Notifications: service.NewNotificationService(dispatcher, logger, cfg.Notification),
		Metrics:       metrics,
	})

	requestService := service.NewRequestService(service.RequestDependencies{
		RequestRepo:  st.requests,
		Dispatcher:   dispatcher,
		Logger:       logger,
		ReopenWindow: cfg.Helpdesk.ReopenWindow(),
	})
	chatService := service.NewChatService(service.ChatDependencies{
		MessageRepo: st.chat,
		Requests:    requestService,
		Files:       files,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	announcementService := service.NewAnnouncementService(service.AnnouncementDependencies{
		AnnouncementRepo: st.announcements,
		Dispatcher:       dispatcher,
		Logger:           logger,
	})
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		AccountRepo: st.accounts,
	})
	profileService := service.NewProfileService(service.ProfileDependencies{
		AccountRepo: st.accounts,
		Logger:      logger,
	})

	if cfg.Helpdesk.SeedDemoData {
		if err := seed.Run(ctx, seed.Dependencies{
			Requests:      st.requests,
			Announcements: st.announcements,
			Auth:          authService,
			Logger:        logger,
		}); err != nil {
			return err
		}
	}

	helpdesk := facade.New(facade.Services{
		Requests:      requestService,
		Chat:          chatService,
		Announcements: announcementService,
		Reports:       service.NewReportService(st.requests),
		Profiles:      profileService,
	}, facade.Simulation{
		Latency:     cfg.Simulation.Latency(),
		Jitter:      cfg.Simulation.Jitter(),
		FailureRate: cfg.Simulation.FailureRate,
		Metrics:     metrics,
		Logger:      logger,
	})

	app := httptransport.NewApp(cfg.App.Name, int(cfg.Storage.MaxFileBytes)+1<<20)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    rdb,
		}),
		Requests:       handlers.NewRequestsHandler(helpdesk),
		Chat:           handlers.NewChatHandler(helpdesk),
		Announcements:  handlers.NewAnnouncementsHandler(helpdesk),
		Auth:           handlers.NewAuthHandler(authService),
		Profile:        handlers.NewProfileHandler(helpdesk),
		Identity:       auth.NewIdentityMiddleware(authService.TokenManager()),
		Metrics:        metrics,
		AttachmentsURL: cfg.Storage.BaseURL,
		AttachmentsDir: files.Root(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Error("fiber listen", zap.Error(err))
			cancel()
		}
	}()

	waitForShutdown(ctx, logger)
	return app.Shutdown()
}

func waitForShutdown(ctx context.Context, logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("shutting down", zap.Error(ctx.Err()))
	}
}
