package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"charmi-backend/internal/domains/checkout/model"
	"charmi-backend/internal/domains/checkout/service"
	"charmi-backend/internal/shared/middleware"
	"charmi-backend/internal/shared/response"
)

type CheckoutHandler struct {
	checkoutService service.ServiceInterface
}

func NewCheckoutHandler(checkoutService service.ServiceInterface) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// PrepareCheckout POST /checkout/prepare
// The body is optional; without one the view carries an empty cart.
func (h *CheckoutHandler) PrepareCheckout(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.PrepareRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.FromError(c, model.NewInvalidRequest(err))
		return
	}

	view, err := h.checkoutService.PrepareCheckout(c.Request.Context(), userID, req.Cart)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, view)
}

// SubmitOrder POST /orders
func (h *CheckoutHandler) SubmitOrder(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, model.NewInvalidRequest(err))
		return
	}

	result, err := h.checkoutService.SubmitOrder(c.Request.Context(), userID, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}
