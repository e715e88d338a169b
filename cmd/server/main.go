package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/confidence/identity-api/internal/api"
	"github.com/confidence/identity-api/internal/api/handler"
	"github.com/confidence/identity-api/internal/core/domain"
	"github.com/confidence/identity-api/internal/core/ports"
	"github.com/confidence/identity-api/internal/core/service"
	"github.com/confidence/identity-api/internal/infrastructure/config"
	mongodb "github.com/confidence/identity-api/internal/infrastructure/db/mongo"
	redisdb "github.com/confidence/identity-api/internal/infrastructure/db/redis"
	"github.com/confidence/identity-api/internal/infrastructure/mail"
	"github.com/confidence/identity-api/internal/infrastructure/queue"
	"github.com/confidence/identity-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close")
		}
	}()

	userRepo := mongodb.NewUserRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	tokenRepo := mongodb.NewResetTokenRepository(db)

	if err := ensureIndexes(ctx, userRepo, roleRepo, tokenRepo); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}
	if err := seedRoles(ctx, roleRepo, cfg.DefaultRole); err != nil {
		log.Fatal().Err(err).Msg("role bootstrap failed")
	}

	// --- Outbound mail ---
	var notifier ports.Notifier
	if cfg.SMTP.Host != "" {
		notifier = mail.NewSMTPNotifier(mail.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		log.Warn().Msg("SMTP_HOST not set, mail will only be logged")
		notifier = mail.NewLogNotifier(logger.For("mail"))
	}

	dispatcher := queue.NewDispatcher(0, notifier, logger.For("mail-dispatcher"))
	dispatcher.Start(ctx)

	// --- Core services ---
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokens, logger.For("auth"))
	userService := service.NewUserService(userRepo, roleRepo, cfg.DefaultRole, logger.For("users"))
	roleService := service.NewRoleService(roleRepo, userRepo, logger.For("roles"))
	recovery := service.NewRecoveryService(
		userRepo,
		tokenRepo,
		dispatcher,
		redisdb.NewResetThrottle(rdb, 0),
		cfg.ResetURL,
		logger.For("recovery"),
	)

	// --- HTTP ---
	e := api.NewRouter(api.RouterDeps{
		Auth:     handler.NewAuthHandler(authService, userService, recovery),
		Users:    handler.NewUserHandler(userService),
		Roles:    handler.NewRoleHandler(roleService),
		Health:   handler.NewHealthHandler(db, rdb),
		Tokens:   tokens,
		UserRepo: userRepo,
		Log:      logger.For("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("identity api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
}

type indexEnsurer interface {
	EnsureIndexes(ctx context.Context) error
}

func ensureIndexes(ctx context.Context, repos ...indexEnsurer) error {
	for _, r := range repos {
		if err := r.EnsureIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}

// seedRoles guarantees the roles the service depends on exist before the
// first registration comes in.
func seedRoles(ctx context.Context, roles ports.RoleRepository, defaultRole string) error {
	seed := []domain.Role{
		{Name: defaultRole, Description: "Default role assigned on registration"},
		{Name: domain.RoleAdmin, Description: "Full administrative access"},
	}
	for i := range seed {
		role := seed[i]
		if _, err := roles.Create(ctx, &role); err != nil && !errors.Is(err, domain.ErrRoleExists) {
			return err
		}
	}
	return nil
}
