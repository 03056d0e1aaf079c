package model

import (
	"time"

	"github.com/google/uuid"
)

// ScheduleSlot is a bookable (doctor, time-of-day) pair from the fixed daily
// catalog. Availability is derived from the appointments table, not stored.
type ScheduleSlot struct {
	ID        uuid.UUID `db:"id" json:"id"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	TimeOfDay string    `db:"time" json:"time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AvailableSlot is the projection returned to callers browsing a doctor's
// free slots.
type AvailableSlot struct {
	ID        uuid.UUID `db:"id" json:"id"`
	TimeOfDay string    `db:"time" json:"time"`
}

type SlotStatus struct {
	DoctorID  uuid.UUID `json:"doctor_id"`
	TimeOfDay string    `json:"time"`
	Booked    bool      `json:"booked"`
}
