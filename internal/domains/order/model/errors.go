package model

import (
	"charmi-backend/internal/shared/apperror"
)

const (
	ErrCodeOrderNotFound  = "ORD_001"
	ErrCodeInvalidOrderID = "ORD_002"
	ErrCodeAddressGone    = "ORD_003"
	ErrCodeValueRejected  = "ORD_004"
	ErrCodeStorageFailure = "ORD_500"
)

var (
	ErrOrderNotFound = apperror.NotFound(ErrCodeOrderNotFound, "Order not found")
	ErrAddressGone   = apperror.Validation(ErrCodeAddressGone, "Shipping address no longer exists")
	ErrValueRejected = apperror.Validation(ErrCodeValueRejected, "Order contains a quantity or amount out of range")
)

func NewInvalidOrderID(raw string) *apperror.Error {
	return apperror.Validation(ErrCodeInvalidOrderID, "Invalid order id").WithDetails(map[string]string{"id": raw})
}

func NewStorageFailure(op string, err error) *apperror.Error {
	return apperror.Internal(ErrCodeStorageFailure, op+" failed", err)
}
