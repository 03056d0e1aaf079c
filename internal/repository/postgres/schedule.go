package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/polyclinicapp/booking-api/internal/model"
	apperrors "github.com/polyclinicapp/booking-api/pkg/errors"
)

func (r *scheduleRepository) ListAvailable(ctx context.Context, doctorID uuid.UUID) ([]*model.AvailableSlot, error) {
	query := `
		SELECT s.id, to_char(s.time, 'HH24:MI') AS time
		FROM schedule s
		LEFT JOIN appointments a ON s.id = a.schedule_id
		WHERE s.doctor_id = $1 AND a.schedule_id IS NULL
		ORDER BY s.time
	`

	var slots []*model.AvailableSlot
	if err := r.db.SelectContext(ctx, &slots, query, doctorID); err != nil {
		return nil, storageError("list available slots", err)
	}
	return slots, nil
}

func (r *scheduleRepository) Get(ctx context.Context, id uuid.UUID) (*model.ScheduleSlot, error) {
	query := `
		SELECT id, doctor_id, to_char(time, 'HH24:MI') AS time, created_at
		FROM schedule
		WHERE id = $1
	`

	var slot model.ScheduleSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("schedule slot")
		}
		return nil, storageError("get schedule slot", err)
	}
	return &slot, nil
}

func (r *scheduleRepository) IsBooked(ctx context.Context, doctorID uuid.UUID, timeOfDay string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM appointments a
			JOIN schedule s ON a.schedule_id = s.id
			WHERE s.doctor_id = $1 AND s.time = $2::time
		)
	`

	var booked bool
	if err := r.db.GetContext(ctx, &booked, query, doctorID, timeOfDay); err != nil {
		return false, storageError("check slot booking", err)
	}
	return booked, nil
}
