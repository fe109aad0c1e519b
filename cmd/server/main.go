package main

import (
	"context"
	"log"
	"time"

	"github.com/campusboard/campusboard/internal/api"
	"github.com/campusboard/campusboard/internal/app"
	"github.com/campusboard/campusboard/internal/config"
	"github.com/campusboard/campusboard/internal/gateway/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	gw := postgres.New(pool, postgres.AuthConfig{
		JWTSecret:  cfg.JWTSecret,
		BcryptCost: cfg.BcryptCost,
		SessionTTL: time.Duration(cfg.SessionTTLHours) * time.Hour,
	}, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	server := api.NewServer(gw, logger)
	server.Register(e)

	logger.Info("Starting campusboard server",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
	)

	if err := e.Start(":" + cfg.Port); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
