package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/tripledger/tripledger/internal/app"
	"github.com/tripledger/tripledger/internal/observability"
	"github.com/tripledger/tripledger/internal/platform/cache"
	"github.com/tripledger/tripledger/internal/platform/db"
	"github.com/tripledger/tripledger/internal/rates"
	"github.com/tripledger/tripledger/internal/trips"
	"github.com/tripledger/tripledger/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	jobClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	ratesRepo := rates.NewRepository(pool)
	ratesCache := rates.NewCache(redisClient, cfg.RateCacheTTL)
	ratesService := rates.NewService(ratesRepo, ratesCache, jobClient)
	ratesHandler := rates.NewHandler(logger, ratesService)

	tripsRepo := trips.NewRepository(pool)
	tripsService := trips.NewService(tripsRepo, ratesService, logger, metrics, trips.ServiceConfig{
		RoomSearchBudget: cfg.RoomSearchBudget,
	})
	tripsHandler := trips.NewHandler(logger, tripsService)

	router := app.NewRouter(app.RouterParams{
		Logger:       logger,
		Config:       cfg,
		TripsHandler: tripsHandler,
		RatesHandler: ratesHandler,
		Metrics:      metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
