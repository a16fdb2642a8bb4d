package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"charmi-backend/internal/config"
)

const (
	TypeOrderConfirmation = "order:confirmation"

	QueueDefault = "default"
	QueueLow     = "low"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// OrderConfirmationPayload carries ids only; the worker reloads the order and the user's email.
type OrderConfirmationPayload struct {
	OrderID uuid.UUID `json:"order_id"`
	UserID  uuid.UUID `json:"user_id"`
}

func NewOrderConfirmationTask(p OrderConfirmationPayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal order confirmation payload: %w", err)
	}
	return asynq.NewTask(TypeOrderConfirmation, b,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
	), nil
}

func ParseOrderConfirmation(t *asynq.Task) (OrderConfirmationPayload, error) {
	var p OrderConfirmationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("unmarshal order confirmation payload: %w", err)
	}
	if p.OrderID == uuid.Nil {
		return p, fmt.Errorf("order confirmation payload: missing order_id")
	}
	return p, nil
}

func redisOpt(cfg config.QueueConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB}
}

func NewClient(cfg config.QueueConfig) *asynq.Client {
	return asynq.NewClient(redisOpt(cfg))
}

// NewServer builds the worker server. Default gets most of the capacity.
func NewServer(cfg config.QueueConfig) *asynq.Server {
	return asynq.NewServer(redisOpt(cfg), asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues: map[string]int{
			QueueDefault: 6,
			QueueLow:     1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(logTaskError),
		Logger:       newAsynqLogger(),
	})
}
