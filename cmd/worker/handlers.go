package main

import (
	"github.com/hibiken/asynq"

	"charmi-backend/internal/domains/order/job"
	"charmi-backend/internal/infrastructure/email"
	"charmi-backend/internal/infrastructure/queue"
	"charmi-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	orderConfirmation *job.OrderConfirmationHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	emailSvc := email.NewSMTPEmailService(c.Config.SMTP)

	return &HandlerRegistry{
		orderConfirmation: job.NewOrderConfirmationHandler(c.OrderRepo, emailSvc),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TypeOrderConfirmation, h.orderConfirmation.ProcessTask)
}
