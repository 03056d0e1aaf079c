package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/polyclinicapp/booking-api/internal/model"
	"github.com/polyclinicapp/booking-api/internal/repository"
	"github.com/polyclinicapp/booking-api/internal/service/event"
	apperrors "github.com/polyclinicapp/booking-api/pkg/errors"
	"github.com/polyclinicapp/booking-api/pkg/metrics"
)

// Service books appointments. Availability is checked optimistically by the
// caller; the unique constraints on the appointments table are the sole
// arbiter between concurrent bookers, and a lost race surfaces as
// ErrAlreadyBooked rather than a storage error.
type Service struct {
	repo         repository.AppointmentRepository
	userRepo     repository.UserRepository
	scheduleRepo repository.ScheduleRepository
	eventSvc     *event.Service
	metrics      *metrics.Metrics
}

func NewService(
	repo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	scheduleRepo repository.ScheduleRepository,
	eventSvc *event.Service,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:         repo,
		userRepo:     userRepo,
		scheduleRepo: scheduleRepo,
		eventSvc:     eventSvc,
		metrics:      m,
	}
}

func (s *Service) CreateAppointment(ctx context.Context, userID, scheduleID uuid.UUID) (*model.Appointment, error) {
	if _, err := s.userRepo.Get(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.scheduleRepo.Get(ctx, scheduleID); err != nil {
		return nil, err
	}

	appointment := &model.Appointment{
		ID:         uuid.New(),
		UserID:     userID,
		ScheduleID: scheduleID,
		CreatedAt:  time.Now(),
	}

	// The event commits or rolls back together with the appointment row.
	evt, err := s.eventSvc.Build(model.EventAppointmentCreated, appointment)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, appointment, evt); err != nil {
		if errors.Is(err, apperrors.AlreadyBooked()) && s.metrics != nil {
			s.metrics.BookingConflicts.Inc()
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.BookingsTotal.Inc()
	}

	return appointment, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListUserAppointments(ctx context.Context, userID uuid.UUID) ([]*model.Appointment, error) {
	return s.repo.ListForUser(ctx, userID)
}
