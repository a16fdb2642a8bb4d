package model

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"charmi-backend/internal/shared/apperror"
)

const (
	ErrCodeCountryNotFound  = "LOC_001"
	ErrCodeCityNotFound     = "LOC_002"
	ErrCodeDistrictNotFound = "LOC_003"
	ErrCodeInvalidID        = "LOC_004"
	ErrCodeInconsistent     = "LOC_005"
	ErrCodeInvalidTriple    = "LOC_006"
	ErrCodeLookupFailed     = "LOC_500"
)

var (
	ErrCountryNotFound  = apperror.NotFound(ErrCodeCountryNotFound, "Country not found")
	ErrCityNotFound     = apperror.NotFound(ErrCodeCityNotFound, "City not found")
	ErrDistrictNotFound = apperror.NotFound(ErrCodeDistrictNotFound, "District not found")
	ErrInconsistent     = apperror.Validation(ErrCodeInconsistent, "City must belong to the country and district to the city")
)

func NewCountryNotFound(id int64) *apperror.Error {
	return ErrCountryNotFound.WithMessage("Country %d not found", id)
}

func NewCityNotFound(id int64) *apperror.Error {
	return ErrCityNotFound.WithMessage("City %d not found", id)
}

func NewDistrictNotFound(id int64) *apperror.Error {
	return ErrDistrictNotFound.WithMessage("District %d not found", id)
}

func NewInvalidID(field, raw string) *apperror.Error {
	return apperror.Validation(ErrCodeInvalidID, fmt.Sprintf("Invalid %s: %q", field, raw))
}

func NewInvalidTriple(err error) *apperror.Error {
	e := apperror.Validation(ErrCodeInvalidTriple, "countryId, cityId and districtId are required").WithErr(err)
	if fields, ok := err.(validation.Errors); ok {
		return e.WithDetails(fields)
	}
	return e
}

// NewNotFoundFor maps the first missing part of a triple to its not-found error.
func NewNotFoundFor(r *Resolution) *apperror.Error {
	switch {
	case r.Country == nil:
		return NewCountryNotFound(r.Triple.CountryID)
	case r.City == nil:
		return NewCityNotFound(r.Triple.CityID)
	default:
		return NewDistrictNotFound(r.Triple.DistrictID)
	}
}

func NewLookupFailed(err error) *apperror.Error {
	return apperror.Internal(ErrCodeLookupFailed, "Location lookup failed", err)
}
