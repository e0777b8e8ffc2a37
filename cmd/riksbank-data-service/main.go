package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	httpapi "github.com/aerugo/riksbank-data-service/internal/api/http"
	"github.com/aerugo/riksbank-data-service/internal/config"
	"github.com/aerugo/riksbank-data-service/internal/logger"
	"github.com/aerugo/riksbank-data-service/internal/riksbank"
	"github.com/aerugo/riksbank-data-service/internal/riksbank/providers"
	"github.com/aerugo/riksbank-data-service/internal/watcher"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	// Shared HTTP client for outbound Riksbank calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	backoff := providers.BackoffConfig{
		MaxRetries:      cfg.RetryMax,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
	}

	mpClient := providers.NewMonetaryPolicyClient(httpClient, providers.Options{
		BaseURL: cfg.MonetaryPolicyBaseURL,
		Backoff: backoff,
	}, zlog)
	sweaClient := providers.NewSweaClient(httpClient, providers.Options{
		BaseURL: cfg.SweaBaseURL,
		Backoff: backoff,
	}, zlog)
	swestrClient := providers.NewSwestrClient(httpClient, providers.Options{
		BaseURL: cfg.SwestrBaseURL,
		Backoff: backoff,
	}, zlog)

	// Core service orchestrating forecast fetches and reconciliation.
	service := riksbank.NewService(mpClient, zlog)

	// Watcher announcing newly published policy rounds.
	w := watcher.New(service, cfg.WatcherInterval, zlog)
	if err := w.Start(); err != nil {
		zlog.Fatal("failed to start round watcher", zap.Error(err))
	}
	defer w.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "riksbank-data-service",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "riksbank-data-service",
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Services{
		Forecasts: service,
		Swea:      sweaClient,
		Swestr:    swestrClient,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Error("fiber server stopped", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zlog.Error("error during shutdown", zap.Error(err))
	}
}
