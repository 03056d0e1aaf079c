package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/polyclinicapp/booking-api/internal/model"
	apperrors "github.com/polyclinicapp/booking-api/pkg/errors"
)

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment, event *model.OutboxEvent) error {
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO appointments (
				id, user_id, schedule_id, created_at
			) VALUES ($1, $2, $3, $4)
		`
		if _, err := tx.ExecContext(ctx, query,
			appointment.ID,
			appointment.UserID,
			appointment.ScheduleID,
			appointment.CreatedAt,
		); err != nil {
			return err
		}

		if event != nil {
			return insertOutboxEvent(ctx, tx, event)
		}
		return nil
	})
	if err != nil {
		// The unique constraints on appointments are the authoritative
		// arbiter between concurrent bookers; the loser gets a clean
		// rejection here, and the rollback discards its outbox event.
		if isUniqueViolation(err) {
			return apperrors.AlreadyBooked()
		}
		return storageError("create appointment", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, user_id, schedule_id, created_at
		FROM appointments
		WHERE id = $1
	`

	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("appointment")
		}
		return nil, storageError("get appointment", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT id, user_id, schedule_id, created_at
		FROM appointments
		WHERE user_id = $1
		ORDER BY created_at
	`

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, userID); err != nil {
		return nil, storageError("list appointments", err)
	}
	return appointments, nil
}
