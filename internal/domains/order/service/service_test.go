package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"charmi-backend/internal/domains/order/model"
	"charmi-backend/internal/infrastructure/queue"
	"charmi-backend/internal/shared/apperror"
)

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, o *model.Order) (*model.Order, error) {
	args := m.Called(ctx, o)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *mockOrderRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Order), args.Error(1)
}

func (m *mockOrderRepository) GetCustomer(ctx context.Context, userID uuid.UUID) (*model.Customer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}

var userID = uuid.MustParse("77777777-7777-4777-8777-777777777777")

func placedOrder() *model.Order {
	id := uuid.New()
	return &model.Order{
		ID:        id,
		UserID:    userID,
		AddressID: uuid.New(),
		Total:     decimal.RequireFromString("30.00"),
		CreatedAt: time.Now(),
		Items: []model.OrderItem{
			{ID: uuid.New(), OrderID: id, ProductID: uuid.New(), Quantity: 3, Price: decimal.RequireFromString("10.00")},
		},
	}
}

func isConfirmationFor(orderID uuid.UUID) interface{} {
	return mock.MatchedBy(func(task *asynq.Task) bool {
		p, err := queue.ParseOrderConfirmation(task)
		return err == nil && task.Type() == queue.TypeOrderConfirmation && p.OrderID == orderID
	})
}

func TestOrderService_Place_EnqueuesConfirmation(t *testing.T) {
	repo := new(mockOrderRepository)
	tasks := new(mockEnqueuer)
	svc := NewOrderService(repo, tasks)
	ctx := context.Background()
	o := placedOrder()

	repo.On("Create", ctx, mock.Anything).Return(o, nil)
	tasks.On("Enqueue", isConfirmationFor(o.ID)).Return(&asynq.TaskInfo{ID: "t-1"}, nil)

	got, err := svc.Place(ctx, &model.Order{UserID: userID})

	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, 3, got.ItemCount)
	repo.AssertExpectations(t)
	tasks.AssertExpectations(t)
}

func TestOrderService_Place_EnqueueFailureDoesNotFailOrder(t *testing.T) {
	repo := new(mockOrderRepository)
	tasks := new(mockEnqueuer)
	svc := NewOrderService(repo, tasks)
	ctx := context.Background()
	o := placedOrder()

	repo.On("Create", ctx, mock.Anything).Return(o, nil)
	tasks.On("Enqueue", mock.Anything).Return(nil, errors.New("dial tcp: connection refused"))

	got, err := svc.Place(ctx, o)

	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
}

func TestOrderService_Place_StorageFailureSkipsEnqueue(t *testing.T) {
	repo := new(mockOrderRepository)
	tasks := new(mockEnqueuer)
	svc := NewOrderService(repo, tasks)
	ctx := context.Background()

	repo.On("Create", ctx, mock.Anything).Return(nil, errors.New("insert order item 1: boom"))

	_, err := svc.Place(ctx, placedOrder())

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, model.ErrCodeStorageFailure, appErr.Code)
	tasks.AssertNotCalled(t, "Enqueue", mock.Anything)
}

func TestOrderService_Place_WithoutQueue(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := NewOrderService(repo, nil)
	ctx := context.Background()
	o := placedOrder()

	repo.On("Create", ctx, mock.Anything).Return(o, nil)

	_, err := svc.Place(ctx, o)

	assert.NoError(t, err)
}

func TestOrderService_GetByID_OtherUsersOrder(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := NewOrderService(repo, nil)
	ctx := context.Background()
	o := placedOrder()
	o.UserID = uuid.New()

	repo.On("GetByID", ctx, o.ID).Return(o, nil)

	_, err := svc.GetByID(ctx, userID, o.ID)

	assert.True(t, errors.Is(err, model.ErrOrderNotFound))
}

func TestOrderService_GetByID(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := NewOrderService(repo, nil)
	ctx := context.Background()
	o := placedOrder()

	repo.On("GetByID", ctx, o.ID).Return(o, nil)

	got, err := svc.GetByID(ctx, userID, o.ID)

	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].Subtotal.Equal(decimal.RequireFromString("30")))
}

func TestOrderService_ListByUser_Empty(t *testing.T) {
	repo := new(mockOrderRepository)
	svc := NewOrderService(repo, nil)
	ctx := context.Background()

	repo.On("ListByUserID", ctx, userID).Return([]*model.Order{}, nil)

	got, err := svc.ListByUser(ctx, userID)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
