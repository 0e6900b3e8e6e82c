package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mealplan-backend/internal/cache"
	"mealplan-backend/internal/config"
	"mealplan-backend/internal/database"
	"mealplan-backend/internal/logger"
	"mealplan-backend/internal/repository"
	"mealplan-backend/internal/server"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// boot loads config, sets up logging and opens the database.
func boot() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger.Setup(cfg.AppEnv, os.Stdout)

	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

// mealplan serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate and start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := boot()
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var catalogCache cache.Cache
		if cfg.RedisAddr != "" {
			rc, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
			if err != nil {
				logger.L.Warn("redis unavailable, catalog cache disabled", slog.Any("error", err))
			} else {
				defer rc.Close()
				catalogCache = rc
			}
		}

		app := server.New(cfg, repository.New(db), catalogCache)

		errCh := make(chan error, 1)
		go func() {
			logger.L.Info("http server listening", slog.String("port", cfg.HTTPPort), slog.String("env", cfg.AppEnv))
			errCh <- app.Listen(":" + cfg.HTTPPort)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.L.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	},
}
