package postgres

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"

	"github.com/polyclinicapp/booking-api/internal/repository"
	apperrors "github.com/polyclinicapp/booking-api/pkg/errors"
)

type userRepository struct {
	BaseRepository
}

type doctorRepository struct {
	BaseRepository
}

type scheduleRepository struct {
	BaseRepository
}

type appointmentRepository struct {
	BaseRepository
}

type outboxRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func NewDoctorRepository(base BaseRepository) repository.DoctorRepository {
	return &doctorRepository{base}
}

func NewScheduleRepository(base BaseRepository) repository.ScheduleRepository {
	return &scheduleRepository{base}
}

func NewAppointmentRepository(base BaseRepository) repository.AppointmentRepository {
	return &appointmentRepository{base}
}

func NewOutboxRepository(base BaseRepository) repository.OutboxRepository {
	return &outboxRepository{base}
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// isConnectionFailure reports whether err is a connectivity failure rather
// than a query-level error: a bad driver connection, a network error, or a
// Postgres connection-exception class (SQLSTATE 08xxx).
func isConnectionFailure(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Class() == "08"
}

// storageError translates connectivity failures to the storage-unavailable
// error and wraps everything else with the failed operation.
func storageError(op string, err error) error {
	if isConnectionFailure(err) {
		return apperrors.StorageUnavailable(err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
