package model

import (
	"time"

	"github.com/google/uuid"
)

// Appointment consumes a schedule slot exactly once. Rows are immutable and
// never cancelled.
type Appointment struct {
	ID         uuid.UUID `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	ScheduleID uuid.UUID `db:"schedule_id" json:"schedule_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type CreateAppointmentRequest struct {
	UserID     string `json:"user_id" binding:"required,uuid"`
	ScheduleID string `json:"schedule_id" binding:"required,uuid"`
}
