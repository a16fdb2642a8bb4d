package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	locationmodel "charmi-backend/internal/domains/location/model"
)

// Address is a shipping address owned by one user.
// countryId is stored alongside cityId; the service keeps them consistent.
type Address struct {
	ID              uuid.UUID `db:"id"`
	UserID          uuid.UUID `db:"user_id"`
	StreetName      string    `db:"street_name"`
	BuildingNumber  string    `db:"building_number"`
	ApartmentNumber string    `db:"apartment_number"`
	CountryID       int64     `db:"country_id"`
	CityID          int64     `db:"city_id"`
	DistrictID      int64     `db:"district_id"`
	IsDefault       bool      `db:"is_default"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (a *Address) Triple() locationmodel.Triple {
	return locationmodel.Triple{
		CountryID:  a.CountryID,
		CityID:     a.CityID,
		DistrictID: a.DistrictID,
	}
}

// AddressInput is the create/update payload. Unknown fields are rejected by the router.
type AddressInput struct {
	StreetName      string `json:"streetName" binding:"required"`
	BuildingNumber  string `json:"buildingNumber" binding:"required"`
	ApartmentNumber string `json:"apartmentNumber" binding:"required"`
	CountryID       int64  `json:"countryId" binding:"required"`
	CityID          int64  `json:"cityId" binding:"required"`
	DistrictID      int64  `json:"districtId" binding:"required"`
	// IsDefault is honoured on create only. Use the default endpoints to move the flag later.
	IsDefault bool `json:"isDefault"`
}

// Normalize trims whitespace in place.
func (in *AddressInput) Normalize() {
	in.StreetName = strings.TrimSpace(in.StreetName)
	in.BuildingNumber = strings.TrimSpace(in.BuildingNumber)
	in.ApartmentNumber = strings.TrimSpace(in.ApartmentNumber)
}

func (in AddressInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.StreetName, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.BuildingNumber, validation.Required, validation.Length(1, 32)),
		validation.Field(&in.ApartmentNumber, validation.Required, validation.Length(1, 32)),
		validation.Field(&in.CountryID, validation.Required, validation.Min(int64(1))),
		validation.Field(&in.CityID, validation.Required, validation.Min(int64(1))),
		validation.Field(&in.DistrictID, validation.Required, validation.Min(int64(1))),
	)
}

func (in AddressInput) Triple() locationmodel.Triple {
	return locationmodel.Triple{
		CountryID:  in.CountryID,
		CityID:     in.CityID,
		DistrictID: in.DistrictID,
	}
}

// AddressResponse embeds the location ids and, when resolved, their names.
type AddressResponse struct {
	ID              uuid.UUID                    `json:"id"`
	UserID          uuid.UUID                    `json:"userId"`
	StreetName      string                       `json:"streetName"`
	BuildingNumber  string                       `json:"buildingNumber"`
	ApartmentNumber string                       `json:"apartmentNumber"`
	CountryID       int64                        `json:"countryId"`
	CityID          int64                        `json:"cityId"`
	DistrictID      int64                        `json:"districtId"`
	IsDefault       bool                         `json:"isDefault"`
	Location        *locationmodel.LocationNames `json:"location,omitempty"`
	CreatedAt       time.Time                    `json:"createdAt"`
	UpdatedAt       time.Time                    `json:"updatedAt"`
}

func ToResponse(a *Address) *AddressResponse {
	return &AddressResponse{
		ID:              a.ID,
		UserID:          a.UserID,
		StreetName:      a.StreetName,
		BuildingNumber:  a.BuildingNumber,
		ApartmentNumber: a.ApartmentNumber,
		CountryID:       a.CountryID,
		CityID:          a.CityID,
		DistrictID:      a.DistrictID,
		IsDefault:       a.IsDefault,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
