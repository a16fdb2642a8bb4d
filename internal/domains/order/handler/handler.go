package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"charmi-backend/internal/domains/order/model"
	"charmi-backend/internal/domains/order/service"
	"charmi-backend/internal/shared/middleware"
	"charmi-backend/internal/shared/response"
)

type OrderHandler struct {
	orderService service.ServiceInterface
}

func NewOrderHandler(orderService service.ServiceInterface) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// ListOrders GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	orders, err := h.orderService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, orders, &response.Meta{Total: len(orders)})
}

// GetOrderDetail GET /orders/:id
func (h *OrderHandler) GetOrderDetail(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.FromError(c, model.NewInvalidOrderID(c.Param("id")))
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), userID, orderID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}
