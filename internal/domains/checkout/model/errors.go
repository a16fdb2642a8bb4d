package model

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"charmi-backend/internal/shared/apperror"
)

const (
	ErrCodeEmptyCart         = "CHK_001"
	ErrCodeInvalidCart       = "CHK_002"
	ErrCodeTotalMismatch     = "CHK_003"
	ErrCodeInvalidAddress    = "CHK_004"
	ErrCodeInvalidRequest    = "CHK_005"
	ErrCodeIllegalTransition = "CHK_006"
	ErrCodeSubmitFailed      = "CHK_500"
)

var (
	ErrEmptyCart      = apperror.Validation(ErrCodeEmptyCart, "Cart is empty")
	ErrInvalidAddress = apperror.Validation(ErrCodeInvalidAddress, "Shipping address is not one of your addresses")
)

func NewInvalidCart(err error) *apperror.Error {
	e := apperror.Validation(ErrCodeInvalidCart, "Cart contains invalid items").WithErr(err)
	if fields, ok := err.(validation.Errors); ok {
		return e.WithDetails(fields)
	}
	return e
}

func NewTotalMismatch(submitted, computed decimal.Decimal) *apperror.Error {
	return apperror.Validation(ErrCodeTotalMismatch, "Order total does not match the cart").
		WithDetails(map[string]string{
			"submitted": submitted.StringFixed(2),
			"computed":  computed.StringFixed(2),
		})
}

func NewInvalidRequest(err error) *apperror.Error {
	e := apperror.Validation(ErrCodeInvalidRequest, "Invalid checkout request").WithErr(err)
	if fields, ok := err.(validation.Errors); ok {
		return e.WithDetails(fields)
	}
	return e
}

// NewIllegalTransition is a programming error, never a client one.
func NewIllegalTransition(from, to State) *apperror.Error {
	return apperror.Internal(ErrCodeIllegalTransition, "Illegal checkout transition",
		fmt.Errorf("checkout: %s -> %s", from, to))
}

func NewSubmitFailed(err error) *apperror.Error {
	return apperror.Internal(ErrCodeSubmitFailed, "Order could not be placed", err)
}
