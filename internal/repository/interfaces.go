package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/polyclinicapp/booking-api/internal/model"
)

// All repository interfaces in one file
type (
	// UserRepository is the identity store: phone is unique and resolves to
	// exactly one user.
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByPhone(ctx context.Context, phone string) (*model.User, error)
		Count(ctx context.Context) (int64, error)
	}

	// DoctorRepository is the read-mostly directory store.
	DoctorRepository interface {
		List(ctx context.Context) ([]*model.Doctor, error)
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	}

	// ScheduleRepository exposes the fixed slot catalog. Availability is
	// re-queried on every call; callers must not cache it.
	ScheduleRepository interface {
		ListAvailable(ctx context.Context, doctorID uuid.UUID) ([]*model.AvailableSlot, error)
		Get(ctx context.Context, id uuid.UUID) (*model.ScheduleSlot, error)
		IsBooked(ctx context.Context, doctorID uuid.UUID, timeOfDay string) (bool, error)
	}

	AppointmentRepository interface {
		// Create inserts the appointment and its outbox event in one
		// transaction. A unique-constraint violation on the slot is returned
		// as errors.AlreadyBooked and rolls the event back with it.
		Create(ctx context.Context, appointment *model.Appointment, event *model.OutboxEvent) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Appointment, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
