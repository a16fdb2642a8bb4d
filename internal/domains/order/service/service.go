package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"charmi-backend/internal/domains/order/model"
	"charmi-backend/internal/domains/order/repository"
	"charmi-backend/internal/infrastructure/queue"
	"charmi-backend/internal/shared/apperror"
)

type orderService struct {
	repo  repository.RepositoryInterface
	tasks queue.Enqueuer
}

// NewOrderService accepts a nil enqueuer, in which case no confirmation is scheduled.
func NewOrderService(repo repository.RepositoryInterface, tasks queue.Enqueuer) ServiceInterface {
	return &orderService{repo: repo, tasks: tasks}
}

func (s *orderService) Place(ctx context.Context, o *model.Order) (*model.OrderResponse, error) {
	created, err := s.repo.Create(ctx, o)
	if err != nil {
		return nil, storageError("create order", err)
	}

	log.Info().
		Str("order_id", created.ID.String()).
		Str("user_id", created.UserID.String()).
		Str("total", created.Total.StringFixed(2)).
		Int("items", len(created.Items)).
		Msg("order placed")

	// The order is committed at this point; a queue failure must not undo it.
	s.enqueueConfirmation(created)

	return model.ToResponse(created), nil
}

func (s *orderService) enqueueConfirmation(o *model.Order) {
	if s.tasks == nil {
		return
	}

	task, err := queue.NewOrderConfirmationTask(queue.OrderConfirmationPayload{OrderID: o.ID, UserID: o.UserID})
	if err != nil {
		log.Error().Err(err).Str("order_id", o.ID.String()).Msg("Failed to build order confirmation task")
		return
	}

	info, err := s.tasks.Enqueue(task)
	if err != nil {
		log.Error().Err(err).Str("order_id", o.ID.String()).Msg("Failed to enqueue order confirmation")
		return
	}
	log.Debug().Str("order_id", o.ID.String()).Str("task_id", info.ID).Msg("Enqueued order confirmation")
}

// GetByID hides other users' orders behind NotFound.
func (s *orderService) GetByID(ctx context.Context, userID, orderID uuid.UUID) (*model.OrderResponse, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, storageError("get order", err)
	}
	if o == nil || o.UserID != userID {
		return nil, model.ErrOrderNotFound
	}
	return model.ToResponse(o), nil
}

func (s *orderService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.OrderResponse, error) {
	orders, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, storageError("list orders", err)
	}

	responses := make([]*model.OrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = model.ToResponse(o)
	}
	return responses, nil
}

func storageError(op string, err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	return model.NewStorageFailure(op, err)
}
