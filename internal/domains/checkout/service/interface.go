package service

import (
	"context"

	"github.com/google/uuid"

	"charmi-backend/internal/domains/checkout/model"
)

// ServiceInterface assembles the checkout page and turns a cart into an order.
type ServiceInterface interface {
	// PrepareCheckout loads the default address and its names. A user without a default
	// address gets state no_address, not an error. cart may be nil.
	PrepareCheckout(ctx context.Context, userID uuid.UUID, cart *model.Cart) (*model.CheckoutView, error)

	// SubmitOrder validates the cart, the address and the total, then places the order.
	SubmitOrder(ctx context.Context, userID uuid.UUID, req *model.SubmitOrderRequest) (*model.SubmitResult, error)
}
