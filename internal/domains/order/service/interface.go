package service

import (
	"context"

	"github.com/google/uuid"

	"charmi-backend/internal/domains/order/model"
)

type ServiceInterface interface {
	// Place persists a validated order and schedules its confirmation email.
	Place(ctx context.Context, o *model.Order) (*model.OrderResponse, error)

	GetByID(ctx context.Context, userID, orderID uuid.UUID) (*model.OrderResponse, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.OrderResponse, error)
}
