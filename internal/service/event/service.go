package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/polyclinicapp/booking-api/internal/model"
	"github.com/polyclinicapp/booking-api/internal/repository"
)

// Service writes domain events to the transactional outbox; a separate worker
// drains them to the broker.
type Service struct {
	repo repository.OutboxRepository
}

func NewService(repo repository.OutboxRepository) *Service {
	return &Service{repo: repo}
}

// Build marshals payload into an event the caller can insert transactionally
// alongside the write that produced it.
func (s *Service) Build(eventType string, payload interface{}) (*model.OutboxEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return &model.OutboxEvent{
		EventType: eventType,
		Payload:   data,
	}, nil
}

func (s *Service) Emit(ctx context.Context, eventType string, payload interface{}) error {
	evt, err := s.Build(eventType, payload)
	if err != nil {
		return err
	}
	if err := s.repo.Create(ctx, evt); err != nil {
		return fmt.Errorf("failed to store event: %w", err)
	}
	return nil
}
