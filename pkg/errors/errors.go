package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// Common error codes
const (
	ErrValidation ErrorCode = iota + 1000
	ErrNotFound
	ErrDuplicatePhone
	ErrAlreadyBooked
	ErrStorageUnavailable
	ErrInternal
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on the error code so wrapped AppErrors still compare equal.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if !errors.As(target, &appErr) {
		return false
	}
	return e.Code == appErr.Code
}

// Error constructors
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func DuplicatePhone(phone string) *AppError {
	return &AppError{
		Code:    ErrDuplicatePhone,
		Message: fmt.Sprintf("phone %s is already registered", phone),
	}
}

func AlreadyBooked() *AppError {
	return &AppError{
		Code:    ErrAlreadyBooked,
		Message: "slot is already booked",
	}
}

func StorageUnavailable(err error) *AppError {
	return &AppError{
		Code:    ErrStorageUnavailable,
		Message: "storage unavailable",
		Err:     err,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// Code returns the ErrorCode carried by err, or ErrInternal for plain errors.
func Code(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

// Message returns the user-facing message carried by err, including through
// wrapping, or a generic one for plain errors.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
