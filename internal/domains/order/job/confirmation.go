package job

import (
	"context"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"charmi-backend/internal/domains/order/model"
	"charmi-backend/internal/domains/order/repository"
	"charmi-backend/internal/infrastructure/email"
	"charmi-backend/internal/infrastructure/queue"
)

// OrderConfirmationHandler emails the customer once their order is committed.
type OrderConfirmationHandler struct {
	repo   repository.RepositoryInterface
	emails email.EmailService
}

func NewOrderConfirmationHandler(repo repository.RepositoryInterface, emails email.EmailService) *OrderConfirmationHandler {
	return &OrderConfirmationHandler{
		repo:   repo,
		emails: emails,
	}
}

func (h *OrderConfirmationHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	payload, err := queue.ParseOrderConfirmation(t)
	if err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal OrderConfirmation payload")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	order, err := h.repo.GetByID(ctx, payload.OrderID)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		log.Warn().Str("order_id", payload.OrderID.String()).Msg("Order not found, skipping confirmation")
		return nil
	}

	customer, err := h.repo.GetCustomer(ctx, order.UserID)
	if err != nil {
		return fmt.Errorf("load customer: %w", err)
	}
	if customer == nil {
		log.Info().
			Str("order_id", order.ID.String()).
			Str("user_id", order.UserID.String()).
			Msg("Customer deleted, skipping confirmation")
		return nil
	}

	if err := h.emails.Send(ctx, confirmationMessage(customer, order)); err != nil {
		return fmt.Errorf("send order confirmation: %w", err)
	}

	log.Info().
		Str("order_id", order.ID.String()).
		Str("email", customer.Email).
		Msg("Order confirmation sent")
	return nil
}

func confirmationMessage(c *model.Customer, o *model.Order) email.Message {
	name := c.FullName
	if name == "" {
		name = "there"
	}

	var lines strings.Builder
	for _, item := range o.Items {
		fmt.Fprintf(&lines, "- %s x %d @ %s = %s\n",
			item.ProductID, item.Quantity, item.Price.StringFixed(2), item.Subtotal().StringFixed(2))
	}

	body := fmt.Sprintf(`Hi %s,

Thank you for your order.

Order: %s
Placed: %s

%s
Total: %s

We will let you know when it ships.
`,
		name,
		o.ID,
		o.CreatedAt.Format("2006-01-02 15:04 MST"),
		lines.String(),
		o.Total.StringFixed(2),
	)

	return email.Message{
		To:      []string{c.Email},
		Subject: fmt.Sprintf("Order %s confirmed", shortID(o.ID.String())),
		Body:    body,
	}
}

func shortID(id string) string {
	if len(id) < 8 {
		return id
	}
	return strings.ToUpper(id[:8])
}
