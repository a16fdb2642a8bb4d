package repository

import (
	"context"

	"github.com/google/uuid"

	"charmi-backend/internal/domains/order/model"
)

type RepositoryInterface interface {
	// Create writes the header and every item in one transaction.
	Create(ctx context.Context, o *model.Order) (*model.Order, error)

	// GetByID loads the order with its items. (nil, nil) when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListByUserID returns the user's orders, newest first, with items.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Order, error)

	// GetCustomer returns (nil, nil) for unknown or soft-deleted users.
	GetCustomer(ctx context.Context, userID uuid.UUID) (*model.Customer, error)
}
