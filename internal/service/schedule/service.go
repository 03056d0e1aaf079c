package schedule

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/polyclinicapp/booking-api/internal/model"
	"github.com/polyclinicapp/booking-api/internal/repository"
)

// Service exposes the slot catalog. Every availability answer re-queries
// current state; stale answers cause double-booking.
type Service struct {
	repo       repository.ScheduleRepository
	doctorRepo repository.DoctorRepository
}

func NewService(repo repository.ScheduleRepository, doctorRepo repository.DoctorRepository) *Service {
	return &Service{
		repo:       repo,
		doctorRepo: doctorRepo,
	}
}

// AvailableSlots returns the doctor's unbooked slots ordered by time of day.
func (s *Service) AvailableSlots(ctx context.Context, doctorID uuid.UUID) ([]*model.AvailableSlot, error) {
	if _, err := s.doctorRepo.Get(ctx, doctorID); err != nil {
		return nil, err
	}

	slots, err := s.repo.ListAvailable(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get available slots: %w", err)
	}
	return slots, nil
}

// IsBooked reports whether the (doctor, time) slot already has an appointment.
// On storage failure it reports true: a false "booked" only makes the caller
// pick another slot, a false "free" lets two users claim the same one.
func (s *Service) IsBooked(ctx context.Context, doctorID uuid.UUID, timeOfDay string) bool {
	booked, err := s.repo.IsBooked(ctx, doctorID, timeOfDay)
	if err != nil {
		log.Error().Err(err).
			Str("doctor_id", doctorID.String()).
			Str("time", timeOfDay).
			Msg("slot availability check failed, reporting booked")
		return true
	}
	return booked
}
