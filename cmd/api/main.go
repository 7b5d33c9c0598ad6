package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/dolluzcorp/dassist-helpdesk/internal/api/http"
	"github.com/dolluzcorp/dassist-helpdesk/internal/api/http/handlers"
	"github.com/dolluzcorp/dassist-helpdesk/internal/auth"
	"github.com/dolluzcorp/dassist-helpdesk/internal/config"
	"github.com/dolluzcorp/dassist-helpdesk/internal/domain"
	"github.com/dolluzcorp/dassist-helpdesk/internal/events"
	"github.com/dolluzcorp/dassist-helpdesk/internal/notify"
	"github.com/dolluzcorp/dassist-helpdesk/internal/observability"
	"github.com/dolluzcorp/dassist-helpdesk/internal/persistence"
	"github.com/dolluzcorp/dassist-helpdesk/internal/repository"
	"github.com/dolluzcorp/dassist-helpdesk/internal/repository/memory"
	"github.com/dolluzcorp/dassist-helpdesk/internal/service"
	"github.com/dolluzcorp/dassist-helpdesk/internal/storage"
	"github.com/dolluzcorp/dassist-helpdesk/internal/worker"
)

const shutdownTimeout = 15 * time.Second

type repositories struct {
	tickets   repository.TicketRepository
	history   repository.TicketHistoryRepository
	employees repository.EmployeeRepository
	otps      repository.OTPRepository
}

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

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	repos := buildRepositories(pg)

	files, err := storage.NewLocalStore(cfg.Upload.Dir)
	if err != nil {
		logger.Fatal("failed to prepare upload dir", zap.Error(err))
	}

	mailer, err := buildMailer(cfg.SMTP, logger)
	if err != nil {
		logger.Fatal("failed to configure smtp", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	pool := worker.NewPool(cfg.Worker.Workers, cfg.Worker.QueueSize, logger)

	notifications := service.NewNotificationService(service.NotificationDependencies{
		Dispatcher: dispatcher,
		Mailer:     mailer,
		Pool:       pool,
		Logger:     logger,
		Metrics:    metrics,
		Helpdesk:   cfg.Helpdesk,
		OTP:        cfg.OTP,
	})
	worker.StartNotificationWorker(ctx, pool, notifications)

	// A disabled Redis must reach the service as a nil interface.
	var cooldown service.CooldownStore
	if redis.Enabled() {
		cooldown = redis
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	employeeService := service.NewEmployeeService(service.EmployeeDependencies{
		EmployeeRepo: repos.employees,
		Files:        files,
		Logger:       logger,
		Helpdesk:     cfg.Helpdesk,
		BcryptCost:   cfg.Auth.BcryptCost,
		ImageMax:     cfg.Upload.ProfileImageMaxBytes(),
	})
	if _, _, err := employeeService.EnsureAdmin(ctx, cfg.Helpdesk.BootstrapAdmin); err != nil {
		logger.Fatal("failed to seed bootstrap admin", zap.Error(err))
	}
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:    repos.tickets,
		HistoryRepo:   repos.history,
		EmployeeRepo:  repos.employees,
		Files:         files,
		Notifier:      notifications,
		Dispatcher:    dispatcher,
		Logger:        logger,
		TicketPrefix:  cfg.Helpdesk.TicketPrefix,
		AttachmentMax: cfg.Upload.AttachmentMaxBytes(),
	})
	otpService := service.NewOTPService(service.OTPDependencies{
		OTPRepo:      repos.otps,
		EmployeeRepo: repos.employees,
		Cooldown:     cooldown,
		Sender:       notifications,
		Logger:       logger,
		Config:       cfg.OTP,
	})
	authService := service.NewAuthService(service.AuthDependencies{
		EmployeeRepo: repos.employees,
		Tokens:       tokens,
		OTPs:         otpService,
		Logger:       logger,
		BcryptCost:   cfg.Auth.BcryptCost,
	})

	app := httptransport.NewServer(httptransport.ServerConfig{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.App.BodyLimit(),
		Middleware: httptransport.MiddlewareConfig{
			Logger:      logger,
			Metrics:     metrics,
			Timeout:     cfg.App.RequestTimeout(),
			CORSOrigins: cfg.App.CORSOrigins,
		},
		Routes: httptransport.RouteConfig{
			Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Dependency{
				"postgres": pg,
				"redis":    redis,
			}, metrics),
			Tickets:        handlers.NewTicketsHandler(ticketService, employeeService),
			Employees:      handlers.NewEmployeeHandler(employeeService),
			Login:          handlers.NewLoginHandler(authService),
			TicketOTP:      handlers.NewOTPHandler(otpService, domain.OTPPurposeEmailVerification),
			LoginOTP:       handlers.NewOTPHandler(otpService, domain.OTPPurposePasswordReset),
			AuthMiddleware: auth.NewAuthMiddleware(tokens, repos.employees),
			RateLimiter:    httptransport.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
			UploadDir:      cfg.Upload.Dir,
		},
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := pool.Stop(shutdownCtx); err != nil {
		logger.Warn("notification queue not drained", zap.Error(err))
	}
}

func buildRepositories(pg *persistence.Postgres) repositories {
	if pg.Enabled() {
		return repositories{
			tickets:   repository.NewTicketRepository(pg.Pool),
			history:   repository.NewTicketHistoryRepository(pg.Pool),
			employees: repository.NewEmployeeRepository(pg.Pool),
			otps:      repository.NewOTPRepository(pg.Pool),
		}
	}
	store := memory.NewStore()
	return repositories{
		tickets:   store.Tickets(),
		history:   store.History(),
		employees: store.Employees(),
		otps:      store.OTPs(),
	}
}

func buildMailer(cfg config.SMTPConfig, logger *zap.Logger) (notify.Mailer, error) {
	if cfg.Host == "" {
		logger.Warn("SMTP_HOST not provided; mail is logged, not sent")
		return notify.NewLogMailer(logger), nil
	}
	mailer, err := notify.NewSMTPMailer(cfg)
	if err != nil {
		return nil, err
	}
	return mailer, nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
