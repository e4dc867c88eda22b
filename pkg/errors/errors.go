package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrValidation         = errors.New("validation failed")
	ErrMaintenanceBlocked = errors.New("tool is blocked for maintenance")
	ErrConflict           = errors.New("conflicting rental state")
	ErrStateTransition    = errors.New("state transition not allowed")
	ErrRentalNotFound     = errors.New("rental not found")
	ErrToolNotFound       = errors.New("tool not found")
	ErrMemberNotFound     = errors.New("member not found")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeMaintenanceBlocked = "MAINTENANCE_BLOCKED"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeStateTransition    = "STATE_TRANSITION_NOT_ALLOWED"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeDatabaseError      = "DATABASE_ERROR"
	ErrCodeCacheError         = "CACHE_ERROR"
)

// CodeOf extracts the business error code, or an empty string for plain errors.
func CodeOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// Wrap common errors with business context

func WrapValidation(message string) *BusinessError {
	return NewBusinessError(ErrCodeValidation, message, ErrValidation)
}

func WrapMaintenanceBlocked(toolID string, importance string) *BusinessError {
	return NewBusinessError(
		ErrCodeMaintenanceBlocked,
		fmt.Sprintf("Tool %s is overdue for maintenance (importance: %s) and cannot be booked", toolID, importance),
		ErrMaintenanceBlocked,
	)
}

func WrapBookingConflict(toolID string) *BusinessError {
	return NewBusinessError(
		ErrCodeConflict,
		fmt.Sprintf("Tool %s is already booked for an overlapping period", toolID),
		ErrConflict,
	)
}

func WrapToolNotAvailable(toolID string, status string) *BusinessError {
	return NewBusinessError(
		ErrCodeConflict,
		fmt.Sprintf("Tool %s is %s, expected available", toolID, status),
		ErrConflict,
	)
}

func WrapStateTransition(current, requested string) *BusinessError {
	return NewBusinessError(
		ErrCodeStateTransition,
		fmt.Sprintf("Cannot %s a rental in status %s", requested, current),
		ErrStateTransition,
	)
}

func WrapRentalNotFound(rentalID string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("Rental with ID %s not found", rentalID),
		ErrRentalNotFound,
	)
}

func WrapToolNotFound(toolID string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("Tool with ID %s not found", toolID),
		ErrToolNotFound,
	)
}

func WrapMemberNotFound(memberID string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("Member with ID %s not found", memberID),
		ErrMemberNotFound,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}
