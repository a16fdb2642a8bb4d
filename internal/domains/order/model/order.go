package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID        uuid.UUID       `db:"id"`
	UserID    uuid.UUID       `db:"user_id"`
	AddressID uuid.UUID       `db:"address_id"`
	Total     decimal.Decimal `db:"total"`
	CreatedAt time.Time       `db:"created_at"`
	Items     []OrderItem     `db:"-"`
}

type OrderItem struct {
	ID        uuid.UUID       `db:"id"`
	OrderID   uuid.UUID       `db:"order_id"`
	ProductID uuid.UUID       `db:"product_id"`
	Quantity  int             `db:"quantity"`
	Price     decimal.Decimal `db:"price"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Customer is the recipient of order emails.
type Customer struct {
	ID       uuid.UUID
	Email    string
	FullName string
}

type OrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type OrderResponse struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"userId"`
	AddressID uuid.UUID           `json:"addressId"`
	Total     decimal.Decimal     `json:"total"`
	ItemCount int                 `json:"itemCount"`
	Items     []OrderItemResponse `json:"orderItems,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
}

// ToResponse includes items only when they were loaded.
func ToResponse(o *Order) *OrderResponse {
	resp := &OrderResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		AddressID: o.AddressID,
		Total:     o.Total,
		CreatedAt: o.CreatedAt,
	}
	for _, item := range o.Items {
		resp.ItemCount += item.Quantity
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  item.Subtotal(),
		})
	}
	return resp
}
