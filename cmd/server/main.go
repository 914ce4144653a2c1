package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/99minutos/invoicing-system/docs" // swagger docs

	"github.com/99minutos/invoicing-system/internal/api"
	"github.com/99minutos/invoicing-system/internal/core/domain"
	"github.com/99minutos/invoicing-system/internal/core/ports"
	"github.com/99minutos/invoicing-system/internal/core/service"
	"github.com/99minutos/invoicing-system/internal/infrastructure/db/memory"
	mongostore "github.com/99minutos/invoicing-system/internal/infrastructure/db/mongo"
	redisstore "github.com/99minutos/invoicing-system/internal/infrastructure/db/redis"
	"github.com/99minutos/invoicing-system/internal/infrastructure/http/handlers"
	"github.com/99minutos/invoicing-system/internal/infrastructure/mail"
	"github.com/99minutos/invoicing-system/internal/infrastructure/queue"
	"github.com/99minutos/invoicing-system/internal/infrastructure/seed"
	"github.com/99minutos/invoicing-system/internal/pkg/config"
	"github.com/99minutos/invoicing-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title Invoicing Dashboard API
// @version 1.0
// @description Invoices, users, sessions and notifications behind the invoicing dashboard.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "invoicing-system",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

type stores struct {
	users         ports.UserRepository
	invoices      ports.InvoiceRepository
	notifications ports.NotificationRepository
	sessions      ports.SessionStore
	checks        map[string]handlers.Checker
	closers       []func(context.Context) error
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, closeFn := range st.closers {
			if err := closeFn(closeCtx); err != nil {
				log.Warn().Err(err).Msg("closing store")
			}
		}
	}()

	dispatcher := queue.NewDispatcher(cfg.MailWorkers, mail.NewLogMailer(log), log)
	dispatcher.Start(ctx)

	var verifier service.PasswordVerifier = service.SentinelVerifier{Password: cfg.Auth.SentinelPassword}
	if cfg.Auth.PasswordMode == config.PasswordModeBcrypt {
		verifier = service.BcryptVerifier{}
	}

	authService := service.NewAuthService(st.users, verifier, dispatcher, service.AuthConfig{
		JWTSecret:         cfg.JWTSecret,
		TokenTTL:          cfg.TokenTTL,
		VerificationToken: cfg.Auth.VerificationToken,
		Latency: service.Latency{
			Authenticate:     cfg.Latency.Authenticate,
			Register:         cfg.Latency.Register,
			VerifyEmail:      cfg.Latency.VerifyEmail,
			SendVerification: cfg.Latency.SendVerification,
		},
	}, log)

	e := api.NewRouter(api.Dependencies{
		Auth:          authService,
		Sessions:      service.NewSessionManager(st.sessions, authService, log),
		Users:         service.NewUserService(st.users, st.invoices, log),
		Invoices:      service.NewInvoiceService(st.invoices, log),
		Notifications: service.NewNotificationService(st.notifications, log),
		JWTSecret:     cfg.JWTSecret,
		HealthChecks:  st.checks,
		Logger:        log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("store", cfg.StoreBackend).
			Str("sessions", cfg.SessionBackend).
			Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	st := &stores{checks: map[string]handlers.Checker{}}

	var (
		users         []domain.User
		invoices      []domain.Invoice
		notifications []domain.Notification
	)
	if cfg.SeedDemoData {
		hash, err := service.HashPassword(cfg.Auth.SentinelPassword, bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash demo password: %w", err)
		}
		users = seed.Users(hash)
		invoices = seed.Invoices()
		notifications = seed.Notifications(time.Now())
	}

	switch cfg.StoreBackend {
	case config.BackendMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, client.Disconnect)

		userRepo := mongostore.NewUserRepository(db)
		invoiceRepo := mongostore.NewInvoiceRepository(db)
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		if err := invoiceRepo.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		if cfg.SeedDemoData {
			if err := mongostore.SeedIfEmpty(ctx, db, mongostore.Fixtures{
				Users:         users,
				Invoices:      invoices,
				Notifications: notifications,
			}); err != nil {
				return nil, err
			}
		}

		st.users = userRepo
		st.invoices = invoiceRepo
		st.notifications = mongostore.NewNotificationRepository(db)
		st.checks["mongo"] = mongostore.Ping(db)
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo store ready")
	default:
		st.users = memory.NewUserStore(users)
		st.invoices = memory.NewInvoiceStore(invoices)
		st.notifications = memory.NewNotificationStore(notifications)
	}

	switch cfg.SessionBackend {
	case config.BackendRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			Password: cfg.Redis.Password,
		})
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func(context.Context) error { return client.Close() })
		st.sessions = redisstore.NewSessionStore(client, cfg.SessionTTL)
		st.checks["redis"] = redisstore.Ping(client)
	default:
		st.sessions = memory.NewSessionStore()
	}

	return st, nil
}
