package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"charmi-backend/internal/shared/apperror"
)

const (
	ErrCodeAddressNotFound  = "ADDR_001"
	ErrCodeNoDefaultAddress = "ADDR_002"
	ErrCodeInvalidAddressID = "ADDR_003"
	ErrCodeInvalidInput     = "ADDR_004"
	ErrCodeForbiddenUser    = "ADDR_005"
	ErrCodeDefaultConflict  = "ADDR_006"
	ErrCodeInvalidLocation  = "ADDR_007"
	ErrCodeUnauthenticated  = "ADDR_008"
	ErrCodeUserNotFound     = "ADDR_009"
	ErrCodeAddressInUse     = "ADDR_010"
	ErrCodeInvalidUserID    = "ADDR_011"
	ErrCodeStorageFailure   = "ADDR_500"
)

var (
	ErrAddressNotFound  = apperror.NotFound(ErrCodeAddressNotFound, "Address not found")
	ErrNoDefaultAddress = apperror.NotFound(ErrCodeNoDefaultAddress, "User has no default address")
	ErrDefaultConflict  = apperror.Conflict(ErrCodeDefaultConflict, "Default address was changed by a concurrent request, please retry")
	ErrForbiddenUser    = apperror.Forbidden(ErrCodeForbiddenUser, "Cannot access another user's addresses")
	ErrUnauthenticated  = apperror.Unauthorized(ErrCodeUnauthenticated, "Authentication required")
	ErrUserNotFound     = apperror.NotFound(ErrCodeUserNotFound, "User not found")
	ErrAddressInUse     = apperror.Conflict(ErrCodeAddressInUse, "Address is referenced by existing orders")
)

// NewAddressNotFound is also returned when the address belongs to someone else,
// so callers cannot probe for other users' address ids.
func NewAddressNotFound() *apperror.Error {
	return ErrAddressNotFound
}

func NewInvalidAddressID(raw string) *apperror.Error {
	return apperror.Validation(ErrCodeInvalidAddressID, "Invalid address id").WithDetails(map[string]string{"id": raw})
}

func NewInvalidUserID(raw string) *apperror.Error {
	return apperror.Validation(ErrCodeInvalidUserID, "Invalid user id").WithDetails(map[string]string{"userId": raw})
}

func NewInvalidInput(err error) *apperror.Error {
	e := apperror.Validation(ErrCodeInvalidInput, "Invalid address data").WithErr(err)
	if fields, ok := err.(validation.Errors); ok {
		return e.WithDetails(fields)
	}
	return e
}

// NewInvalidLocation wraps a location directory rejection so the client sees an address error.
func NewInvalidLocation(err error) *apperror.Error {
	e := apperror.Validation(ErrCodeInvalidLocation, "Address location is invalid").WithErr(err)
	if locErr, ok := apperror.As(err); ok {
		return e.WithMessage("Address location is invalid: %s", locErr.Message)
	}
	return e
}

func NewStorageFailure(op string, err error) *apperror.Error {
	return apperror.Internal(ErrCodeStorageFailure, op+" failed", err)
}
