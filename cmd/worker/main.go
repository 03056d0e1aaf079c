package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/polyclinicapp/booking-api/internal/config"
	"github.com/polyclinicapp/booking-api/internal/repository/postgres"
	"github.com/polyclinicapp/booking-api/pkg/logger"
	redisbroker "github.com/polyclinicapp/booking-api/pkg/messaging/redis"
	"github.com/polyclinicapp/booking-api/pkg/metrics"
	"github.com/polyclinicapp/booking-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadWorkerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load worker configuration")
	}

	lg := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database())
	if err != nil {
		lg.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redisbroker.NewRedisBroker(redisbroker.Config{
		URL:          cfg.RedisURL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, lg.Zerolog())
	if err != nil {
		lg.Fatal(err, "failed to connect to redis")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(postgres.NewBaseRepository(db))
	m := metrics.NewMetrics("polyclinic", "worker")

	processor, err := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:    cfg.BatchSize,
		PollInterval: cfg.PollInterval,
		Channel:      cfg.Channel,
	}, lg, m)
	if err != nil {
		lg.Fatal(err, "failed to create outbox processor")
	}

	cleanup := worker.NewCleanupWorker(outboxRepo, cfg.RetentionDays, time.Hour, lg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Start(ctx)
	go cleanup.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info("shutting down worker")
	cancel()
}
