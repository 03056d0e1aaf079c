package model

import (
	"time"

	"github.com/google/uuid"
)

// Doctor is seeded at initialization and read-only afterwards.
type Doctor struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Specialization string    `db:"specialization" json:"specialization"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
