package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/polyclinicapp/booking-api/internal/model"
	"github.com/polyclinicapp/booking-api/internal/repository"
	"github.com/polyclinicapp/booking-api/pkg/logger"
	"github.com/polyclinicapp/booking-api/pkg/messaging"
	"github.com/polyclinicapp/booking-api/pkg/metrics"
)

type OutboxProcessorConfig struct {
	BatchSize    int
	PollInterval time.Duration
	Channel      string
}

// OutboxProcessor drains pending outbox events to the broker.
type OutboxProcessor struct {
	repo    repository.OutboxRepository
	broker  messaging.Broker
	config  OutboxProcessorConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	config OutboxProcessorConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) (*OutboxProcessor, error) {
	if config.BatchSize <= 0 {
		return nil, fmt.Errorf("BatchSize must be greater than 0")
	}
	if config.PollInterval <= 0 {
		return nil, fmt.Errorf("PollInterval must be greater than 0")
	}
	if config.Channel == "" {
		return nil, fmt.Errorf("Channel must be set")
	}

	return &OutboxProcessor{
		repo:    repo,
		broker:  broker,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}, nil
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info("starting outbox processor")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("shutting down outbox processor")
			return
		case <-ticker.C:
			if err := p.processEvents(ctx); err != nil {
				p.logger.Error(err, "failed to process events")
			}
		}
	}
}

func (p *OutboxProcessor) processEvents(ctx context.Context) error {
	timer := prometheus.NewTimer(p.metrics.OutboxProcessingLatency)
	defer timer.ObserveDuration()

	dbTimer := prometheus.NewTimer(p.metrics.DatabaseLatency.WithLabelValues("get_pending_events"))
	events, err := p.repo.GetPendingEvents(ctx, p.config.BatchSize)
	dbTimer.ObserveDuration()
	if err != nil {
		p.metrics.DatabaseOperations.WithLabelValues("get_pending_events", "error").Inc()
		return fmt.Errorf("failed to fetch pending events: %w", err)
	}
	p.metrics.DatabaseOperations.WithLabelValues("get_pending_events", "success").Inc()

	for _, evt := range events {
		if err := p.publish(ctx, evt); err != nil {
			p.metrics.OutboxEventsFailed.Inc()
			msg := err.Error()
			if markErr := p.repo.MarkFailed(ctx, evt.ID, msg); markErr != nil {
				p.logger.Error(markErr, "failed to mark event failed")
			}
			continue
		}

		p.metrics.OutboxEventsProcessed.Inc()
		if err := p.repo.MarkProcessed(ctx, evt.ID); err != nil {
			p.logger.Error(err, "failed to mark event processed")
		}
	}

	return nil
}

func (p *OutboxProcessor) publish(ctx context.Context, evt *model.OutboxEvent) error {
	message := map[string]interface{}{
		"id":         evt.ID,
		"event_type": evt.EventType,
		"payload":    evt.Payload,
		"created_at": evt.CreatedAt,
	}
	return p.broker.Publish(ctx, p.config.Channel, message)
}

// CleanupWorker removes processed events past the retention window.
type CleanupWorker struct {
	repo          repository.OutboxRepository
	retentionDays int
	interval      time.Duration
	logger        *logger.Logger
}

func NewCleanupWorker(repo repository.OutboxRepository, retentionDays int, interval time.Duration, logger *logger.Logger) *CleanupWorker {
	return &CleanupWorker{
		repo:          repo,
		retentionDays: retentionDays,
		interval:      interval,
		logger:        logger,
	}
}

func (w *CleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().AddDate(0, 0, -w.retentionDays)
			deleted, err := w.repo.DeleteProcessedBefore(ctx, cutoff)
			if err != nil {
				w.logger.Error(err, "outbox cleanup failed")
				continue
			}
			if deleted > 0 {
				w.logger.Info("outbox cleanup", "deleted", deleted)
			}
		}
	}
}
