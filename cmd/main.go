package main

import (
	"context"
	"time"

	"github.com/AnthoniusHendriyanto/authkit/config"
	"github.com/AnthoniusHendriyanto/authkit/db"
	"github.com/AnthoniusHendriyanto/authkit/internal/auth/domain"
	"github.com/AnthoniusHendriyanto/authkit/internal/auth/handler"
	"github.com/AnthoniusHendriyanto/authkit/internal/auth/password"
	"github.com/AnthoniusHendriyanto/authkit/internal/auth/repository/memory"
	repo "github.com/AnthoniusHendriyanto/authkit/internal/auth/repository/postgres"
	"github.com/AnthoniusHendriyanto/authkit/internal/auth/repository/redisstore"
	"github.com/AnthoniusHendriyanto/authkit/internal/auth/service"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	var users domain.UserStore
	var refreshTokens domain.RefreshTokenStore
	if cfg.DBURL != "" {
		pool, err := db.NewPostgresPool(ctx, cfg.DBURL)
		if err != nil {
			logger.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer pool.Close()
		pgRepo := repo.NewRepository(pool)
		users, refreshTokens = pgRepo, pgRepo
	} else {
		users = memory.NewUserStore()
		refreshTokens = memory.NewRefreshTokenStore()
	}

	window := time.Duration(cfg.AttemptWindowMin) * time.Minute
	var attempts domain.AttemptStore
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() { _ = rdb.Close() }()
		attempts = redisstore.NewAttemptStore(rdb, cfg.MaxLoginAttempts, window)
	} else {
		attempts = memory.NewAttemptStore(cfg.MaxLoginAttempts, window)
	}

	tokenService := service.NewTokenService(
		cfg.AccessTokenSecret,
		time.Duration(cfg.AccessExpiryMin)*time.Minute,
	)
	userService := service.NewUserService(
		users,
		refreshTokens,
		attempts,
		tokenService,
		password.FromName(cfg.PasswordScheme),
	)
	authHandler := handler.NewAuthHandler(userService)

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
	app.Use(handler.RequestLogger(logger))
	handler.RegisterRoutes(app, authHandler, tokenService)

	logger.Info("auth server listening", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
