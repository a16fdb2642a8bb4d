package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	addressmodel "charmi-backend/internal/domains/address/model"
	addressservice "charmi-backend/internal/domains/address/service"
	"charmi-backend/internal/domains/checkout/model"
	locationservice "charmi-backend/internal/domains/location/service"
	ordermodel "charmi-backend/internal/domains/order/model"
	orderservice "charmi-backend/internal/domains/order/service"
	"charmi-backend/internal/shared/apperror"
	"charmi-backend/internal/shared/metrics"
)

type checkoutService struct {
	addresses addressservice.ServiceInterface
	locations locationservice.ServiceInterface
	orders    orderservice.ServiceInterface
}

func NewCheckoutService(
	addresses addressservice.ServiceInterface,
	locations locationservice.ServiceInterface,
	orders orderservice.ServiceInterface,
) ServiceInterface {
	return &checkoutService{
		addresses: addresses,
		locations: locations,
		orders:    orders,
	}
}

func (s *checkoutService) PrepareCheckout(ctx context.Context, userID uuid.UUID, cart *model.Cart) (*model.CheckoutView, error) {
	view := &model.CheckoutView{Cart: model.Cart{Items: []model.CartItem{}}}
	if cart != nil && !cart.IsEmpty() {
		if err := cart.Validate(); err != nil {
			return nil, model.NewInvalidCart(err)
		}
		view.Cart = *cart
	}
	view.Total = view.Cart.Total()
	view.ItemCount = view.Cart.ItemCount()

	flow := model.NewFlow()
	if err := flow.Transition(model.StateAddressLoading); err != nil {
		return nil, err
	}

	addr, err := s.addresses.FindDefault(ctx, userID)
	if apperror.IsNotFound(err) {
		if err := flow.Transition(model.StateNoAddress); err != nil {
			return nil, err
		}
		view.State = flow.State()
		return view, nil
	}
	if err != nil {
		return nil, err
	}

	names, err := s.locations.ResolveNames(ctx, addr.Triple())
	if err != nil {
		return nil, err
	}

	if err := flow.Transition(model.StateAddressReady); err != nil {
		return nil, err
	}
	view.State = flow.State()
	view.Address = addressmodel.ToResponse(addr)
	view.Names = names
	return view, nil
}

func (s *checkoutService) SubmitOrder(ctx context.Context, userID uuid.UUID, req *model.SubmitOrderRequest) (*model.SubmitResult, error) {
	if req == nil {
		return nil, rejected(model.NewInvalidRequest(nil))
	}

	cart := req.Cart()
	if cart.IsEmpty() {
		return nil, rejected(model.ErrEmptyCart)
	}
	if err := cart.Validate(); err != nil {
		return nil, rejected(model.NewInvalidCart(err))
	}
	if err := req.Validate(); err != nil {
		return nil, rejected(model.NewInvalidRequest(err))
	}
	if computed := cart.Total(); !computed.Equal(req.Total) {
		return nil, rejected(model.NewTotalMismatch(req.Total, computed))
	}

	flow := model.NewFlow()
	if err := flow.Transition(model.StateAddressLoading); err != nil {
		return nil, err
	}

	if _, err := s.addresses.FindOwned(ctx, userID, req.AddressID); err != nil {
		if apperror.IsNotFound(err) {
			return nil, rejected(model.ErrInvalidAddress)
		}
		return nil, err
	}

	if err := flow.Transition(model.StateAddressReady); err != nil {
		return nil, err
	}
	if err := flow.Transition(model.StateSubmitting); err != nil {
		return nil, err
	}

	placed, err := s.orders.Place(ctx, newOrder(userID, cart, req))
	if err != nil {
		_ = flow.Transition(model.StateFailed)
		outcome := metrics.OutcomeFailure
		if apperror.IsValidation(err) {
			outcome = metrics.OutcomeInvalid
		}
		metrics.OrdersSubmitted.WithLabelValues(outcome).Inc()
		log.Warn().Err(err).Str("user_id", userID.String()).Str("state", string(flow.State())).Msg("order submission failed")
		return nil, err
	}

	if err := flow.Transition(model.StateSuccess); err != nil {
		return nil, err
	}
	metrics.OrdersSubmitted.WithLabelValues(metrics.OutcomeSuccess).Inc()

	return &model.SubmitResult{
		State:     flow.State(),
		ClearCart: true,
		Order:     placed,
	}, nil
}

func newOrder(userID uuid.UUID, cart model.Cart, req *model.SubmitOrderRequest) *ordermodel.Order {
	items := make([]ordermodel.OrderItem, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = ordermodel.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}
	return &ordermodel.Order{
		UserID:    userID,
		AddressID: req.AddressID,
		Total:     req.Total,
		Items:     items,
	}
}

func rejected(err error) error {
	metrics.OrdersSubmitted.WithLabelValues(metrics.OutcomeInvalid).Inc()
	return err
}
