package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/polyclinicapp/booking-api/internal/model"
	apperrors "github.com/polyclinicapp/booking-api/pkg/errors"
)

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	// Insertion order, not alphabetical.
	query := `
		SELECT id, name, specialization, created_at
		FROM doctors
		ORDER BY created_at, id
	`

	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, storageError("list doctors", err)
	}
	return doctors, nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `
		SELECT id, name, specialization, created_at
		FROM doctors
		WHERE id = $1
	`

	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("doctor")
		}
		return nil, storageError("get doctor", err)
	}
	return &doctor, nil
}
