package repository

import (
	"context"

	"charmi-backend/internal/domains/location/model"
)

// RepositoryInterface reads the location reference tables.
// Single-row getters return (nil, nil) when the row does not exist.
type RepositoryInterface interface {
	GetCountry(ctx context.Context, id int64) (*model.Country, error)
	GetCity(ctx context.Context, id int64) (*model.City, error)
	GetDistrict(ctx context.Context, id int64) (*model.District, error)

	ListCountries(ctx context.Context) ([]model.Country, error)
	ListCities(ctx context.Context) ([]model.City, error)
	ListCitiesByCountry(ctx context.Context, countryID int64) ([]model.City, error)
	ListDistrictsByCity(ctx context.Context, cityID int64) ([]model.District, error)

	// Resolve looks up all parts of each triple in a single round trip.
	// The result has one entry per input, in input order.
	Resolve(ctx context.Context, triples []model.Triple) ([]model.Resolution, error)
}
