package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

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
		slog.Default().Info("test mode detected, skipping worker startup")
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

	metrics := observability.NewMetrics()

	ratesRepo := rates.NewRepository(pool)
	ratesCache := rates.NewCache(redisClient, cfg.RateCacheTTL)
	// The worker reads rates but never changes them, so no enqueuer.
	ratesService := rates.NewService(ratesRepo, ratesCache, nil)

	tripsRepo := trips.NewRepository(pool)
	tripsService := trips.NewService(tripsRepo, ratesService, logger, metrics, trips.ServiceConfig{
		RoomSearchBudget: cfg.RoomSearchBudget,
	})

	recomputeJob := jobs.NewQuoteRecomputeJob(tripsService, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeQuoteRecompute, Handler: recomputeJob.Handle},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
