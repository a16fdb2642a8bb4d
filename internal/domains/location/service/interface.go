package service

import (
	"context"

	"charmi-backend/internal/domains/location/model"
)

// ServiceInterface is the Location Directory. Every lookup of an absent id fails with NotFound.
type ServiceInterface interface {
	GetCountry(ctx context.Context, id int64) (*model.Country, error)
	GetCity(ctx context.Context, id int64) (*model.City, error)
	GetDistrict(ctx context.Context, id int64) (*model.District, error)

	ListCountries(ctx context.Context) ([]model.Country, error)
	ListCities(ctx context.Context) ([]model.City, error)
	ListCitiesByCountry(ctx context.Context, countryID int64) ([]model.City, error)
	ListDistrictsByCity(ctx context.Context, cityID int64) ([]model.District, error)

	// ResolveNames turns a triple into display names in one database round trip.
	ResolveNames(ctx context.Context, t model.Triple) (*model.LocationNames, error)

	// ResolveMany resolves several triples at once, returning names in input order.
	// Parts that no longer exist come back with empty names.
	ResolveMany(ctx context.Context, triples []model.Triple) ([]model.LocationNames, error)

	// ValidateTriple checks that every id exists and that the hierarchy is consistent.
	ValidateTriple(ctx context.Context, t model.Triple) error

	// InvalidateCache drops every cached directory entry after reference data changes.
	InvalidateCache(ctx context.Context) error
}
