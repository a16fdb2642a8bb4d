package service

import (
	"context"

	"github.com/google/uuid"

	"charmi-backend/internal/domains/address/model"
)

// ServiceInterface is the Address Store and the Default-Address Resolver.
// Addresses owned by another user are reported as NotFound.
type ServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, in *model.AddressInput) (*model.AddressResponse, error)
	GetByID(ctx context.Context, userID, addressID uuid.UUID) (*model.AddressResponse, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.AddressResponse, error)
	GetDefaultByUser(ctx context.Context, userID uuid.UUID) (*model.AddressResponse, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, in *model.AddressInput) (*model.AddressResponse, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error

	// FindDefault and FindOwned return the stored address without resolving location names.
	FindDefault(ctx context.Context, userID uuid.UUID) (*model.Address, error)
	FindOwned(ctx context.Context, userID, addressID uuid.UUID) (*model.Address, error)

	// SetDefault makes addressID the user's only default.
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) (*model.AddressResponse, error)
	// ClearDefault leaves the user with zero defaults.
	ClearDefault(ctx context.Context, userID uuid.UUID) error
}
