// @title                       Debt Tracker API
// @version                     1.0
// @description                 Users, debts and role based access over a JWT secured REST API.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
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

	"github.com/debttracker/debt-api/internal/api"
	"github.com/debttracker/debt-api/internal/api/handler"
	"github.com/debttracker/debt-api/internal/core/service"
	"github.com/debttracker/debt-api/internal/infrastructure/config"
	mongodb "github.com/debttracker/debt-api/internal/infrastructure/db/mongo"
	redisdb "github.com/debttracker/debt-api/internal/infrastructure/db/redis"
	"github.com/debttracker/debt-api/internal/infrastructure/queue"
	"github.com/debttracker/debt-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "debt-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}()

	users := mongodb.NewUserRepository(db)
	debts := mongodb.NewDebtRepository(db)

	// The audit workers outlive the signal context so Close can drain them.
	auditCtx, cancelAudit := context.WithCancel(context.Background())
	defer cancelAudit()
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, service.NewAuditService(mongodb.NewAuditRepository(db), log), log)
	dispatcher.Start(auditCtx)
	defer dispatcher.Close()

	if cfg.Auth.AllowAdminSignup {
		log.Warn().Msg("self-registration with the admin role is enabled")
	}

	authService := service.NewAuthService(users, dispatcher, service.AuthOptions{
		JWTSecret:        cfg.Auth.JWTSecret,
		TokenTTL:         cfg.Auth.JWTTTL,
		BcryptCost:       cfg.Auth.BcryptCost,
		AllowAdminSignup: cfg.Auth.AllowAdminSignup,
	}, log)
	userService := service.NewUserService(users, debts, dispatcher, cfg.Auth.BcryptCost, log)
	debtService := service.NewDebtService(debts, users, redisdb.NewIdempotencyStore(rdb), cfg.Redis.IdempotencyTTL, dispatcher, log)

	e := api.NewRouter(api.Dependencies{
		Auth:  authService,
		Users: userService,
		Debts: debtService,
		Readiness: map[string]handler.DependencyCheck{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		CORSOrigins: cfg.CORS.Origins,
		Logger:      log,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("received interruption signal, shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}
	return nil
}
