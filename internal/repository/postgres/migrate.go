package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/polyclinicapp/booking-api/internal/config"
	"github.com/polyclinicapp/booking-api/internal/model"
)

// Migrator owns idempotent schema creation and reference-data seeding. Both
// may run any number of times without duplicating rows.
type Migrator struct {
	db *sqlx.DB
}

func NewMigrator(db *sqlx.DB) *Migrator {
	return &Migrator{db: db}
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		full_name VARCHAR(100) NOT NULL,
		phone VARCHAR(20) NOT NULL UNIQUE,
		gender VARCHAR(10) NOT NULL,
		birth_date DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS doctors (
		id UUID PRIMARY KEY,
		name VARCHAR(100) NOT NULL UNIQUE,
		specialization VARCHAR(100) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS schedule (
		id UUID PRIMARY KEY,
		doctor_id UUID NOT NULL REFERENCES doctors(id),
		time TIME NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (doctor_id, time)
	)`,
	// UNIQUE(schedule_id) is what actually enforces one booking per slot;
	// UNIQUE(user_id, schedule_id) alone would let two different users claim
	// the same slot.
	`CREATE TABLE IF NOT EXISTS appointments (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		schedule_id UUID NOT NULL REFERENCES schedule(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, schedule_id),
		UNIQUE (schedule_id)
	)`,
	`CREATE TABLE IF NOT EXISTS outbox_events (
		id UUID PRIMARY KEY,
		event_type VARCHAR(100) NOT NULL,
		payload JSONB NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		error_message TEXT,
		retry_count INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		processed_at TIMESTAMPTZ,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// InitSchema creates all tables if they do not exist.
func (m *Migrator) InitSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Seed inserts the reference doctors, the slot catalog for every doctor, and
// a single seed user when the users table is empty. Existing rows are skipped
// via ON CONFLICT DO NOTHING.
func (m *Migrator) Seed(ctx context.Context, cfg config.SeedConfig) error {
	// Doctor listing orders by created_at; explicit offsets keep insertion
	// order stable even when the clock ticks coarser than this loop.
	createdAts := seedTimes(time.Now(), len(cfg.Doctors))
	for i, d := range cfg.Doctors {
		query := `
			INSERT INTO doctors (id, name, specialization, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO NOTHING
		`
		if _, err := m.db.ExecContext(ctx, query, uuid.New(), d.Name, d.Specialization, createdAts[i]); err != nil {
			return fmt.Errorf("failed to seed doctor %s: %w", d.Name, err)
		}
	}

	var doctorIDs []uuid.UUID
	if err := m.db.SelectContext(ctx, &doctorIDs, `SELECT id FROM doctors ORDER BY created_at, id`); err != nil {
		return fmt.Errorf("failed to list doctors for seeding: %w", err)
	}

	for _, doctorID := range doctorIDs {
		for _, t := range cfg.Times {
			query := `
				INSERT INTO schedule (id, doctor_id, time, created_at)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (doctor_id, time) DO NOTHING
			`
			if _, err := m.db.ExecContext(ctx, query, uuid.New(), doctorID, t, time.Now()); err != nil {
				return fmt.Errorf("failed to seed slot %s for doctor %s: %w", t, doctorID, err)
			}
		}
	}

	if cfg.User != nil {
		if err := m.seedUser(ctx, cfg.User); err != nil {
			return err
		}
	}

	return nil
}

// seedTimes returns strictly increasing timestamps starting at start, one per
// seeded row.
func seedTimes(start time.Time, n int) []time.Time {
	times := make([]time.Time, n)
	for i := range times {
		times[i] = start.Add(time.Duration(i) * time.Millisecond)
	}
	return times
}

// seedUser inserts the seed user only when no users exist yet.
func (m *Migrator) seedUser(ctx context.Context, u *config.SeedUser) error {
	var count int64
	if err := m.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	birthDate, err := time.Parse("2006-01-02", u.BirthDate)
	if err != nil {
		return fmt.Errorf("invalid seed user birth date: %w", err)
	}

	query := `
		INSERT INTO users (id, full_name, phone, gender, birth_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := m.db.ExecContext(ctx, query,
		uuid.New(), u.FullName, u.Phone, model.Gender(u.Gender), birthDate, time.Now(),
	); err != nil {
		return fmt.Errorf("failed to seed user: %w", err)
	}
	return nil
}
