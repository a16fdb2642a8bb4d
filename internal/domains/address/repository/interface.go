package repository

import (
	"context"

	"github.com/google/uuid"

	"charmi-backend/internal/domains/address/model"
)

// RepositoryInterface is the Address Store plus the default-address writes.
// Every write that touches is_default runs in one transaction holding the user's row lock,
// so a user never ends up with zero defaults by accident or with more than one.
type RepositoryInterface interface {
	// Create inserts the address. When it is the user's first address, or a.IsDefault is set,
	// the previous default is cleared in the same transaction and the new address becomes default.
	Create(ctx context.Context, a *model.Address) (*model.Address, error)

	// GetByID returns (nil, nil) when the address does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Address, error)

	// ListByUserID orders the default first, then newest first.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Address, error)

	// GetDefaultByUserID returns (nil, nil) when the user has no default.
	GetDefaultByUserID(ctx context.Context, userID uuid.UUID) (*model.Address, error)

	// Update replaces the editable fields of an address owned by userID. (nil, nil) when there is none.
	Update(ctx context.Context, userID, id uuid.UUID, a *model.Address) (*model.Address, error)

	// Delete removes an address owned by userID.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// SetDefault clears the user's current default and flags addressID, atomically.
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) (*model.Address, error)

	// ClearDefault leaves the user without a default address. Idempotent.
	ClearDefault(ctx context.Context, userID uuid.UUID) error
}
