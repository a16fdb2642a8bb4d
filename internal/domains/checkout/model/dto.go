package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	addressmodel "charmi-backend/internal/domains/address/model"
	locationmodel "charmi-backend/internal/domains/location/model"
	ordermodel "charmi-backend/internal/domains/order/model"
)

// PrepareRequest is the optional body of POST /checkout/prepare.
type PrepareRequest struct {
	Cart *Cart `json:"cart"`
}

// CheckoutView is what the checkout page renders.
// Address and Names are only set in address_ready.
type CheckoutView struct {
	State     State                         `json:"state"`
	Address   *addressmodel.AddressResponse `json:"address,omitempty"`
	Names     *locationmodel.LocationNames  `json:"names,omitempty"`
	Cart      Cart                          `json:"cart"`
	Total     decimal.Decimal               `json:"total"`
	ItemCount int                           `json:"itemCount"`
}

// SubmitOrderRequest is the body of POST /orders.
type SubmitOrderRequest struct {
	Total      decimal.Decimal `json:"total"`
	AddressID  uuid.UUID       `json:"addressId"`
	OrderItems []CartItem      `json:"orderItems"`
}

func (r SubmitOrderRequest) Cart() Cart {
	return Cart{Items: r.OrderItems}
}

func (r SubmitOrderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AddressID, validation.By(notNilUUID)),
		validation.Field(&r.Total, validation.By(money)),
	)
}

type SubmitResult struct {
	State     State                     `json:"state"`
	ClearCart bool                      `json:"clearCart"`
	Order     *ordermodel.OrderResponse `json:"order"`
}
