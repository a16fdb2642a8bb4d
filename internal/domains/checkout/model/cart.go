package model

import (
	"errors"
	"math"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one line of the client's cart. Price accepts a JSON string or number.
type CartItem struct {
	ProductID uuid.UUID       `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i CartItem) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.ProductID, validation.By(notNilUUID)),
		validation.Field(&i.Quantity, validation.Required, validation.Min(1), validation.Max(math.MaxInt32)),
		validation.Field(&i.Price, validation.By(money), validation.By(i.subtotalInRange)),
	)
}

func (i CartItem) subtotalInRange(interface{}) error {
	if i.Subtotal().GreaterThan(MaxAmount) {
		return errors.New("line subtotal exceeds " + MaxAmount.StringFixed(2))
	}
	return nil
}

// Cart is held by the client and sent with each checkout call.
type Cart struct {
	Items []CartItem `json:"items"`
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Total is the sum of price x quantity over all lines.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (c Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Validate checks every line. Errors are keyed by line index.
func (c Cart) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Items, validation.Required),
	); err != nil {
		return err
	}
	if c.Total().GreaterThan(MaxAmount) {
		return validation.Errors{"total": errors.New("must not exceed " + MaxAmount.StringFixed(2))}
	}
	return nil
}

func notNilUUID(value interface{}) error {
	id, _ := value.(uuid.UUID)
	if id == uuid.Nil {
		return errors.New("is required")
	}
	return nil
}

// MaxAmount is the largest value a NUMERIC(12,2) column holds.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// money accepts non-negative amounts up to MaxAmount with at most two decimal places.
func money(value interface{}) error {
	d, _ := value.(decimal.Decimal)
	if d.IsNegative() {
		return errors.New("must not be negative")
	}
	if d.GreaterThan(MaxAmount) {
		return errors.New("must not exceed " + MaxAmount.StringFixed(2))
	}
	if !d.Equal(d.Round(2)) {
		return errors.New("must have at most 2 decimal places")
	}
	return nil
}
