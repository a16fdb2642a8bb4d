package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"charmi-backend/internal/domains/address/model"
	"charmi-backend/internal/domains/address/service"
	"charmi-backend/internal/shared/middleware"
	"charmi-backend/internal/shared/response"
)

type AddressHandler struct {
	service service.ServiceInterface
}

func NewAddressHandler(service service.ServiceInterface) *AddressHandler {
	return &AddressHandler{
		service: service,
	}
}

// CreateAddress handles POST /address
func (h *AddressHandler) CreateAddress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req model.AddressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, model.NewInvalidInput(err))
		return
	}

	result, err := h.service.Create(c.Request.Context(), userID, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// GetAddressByID handles GET /address/:id
func (h *AddressHandler) GetAddressByID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	addressID, ok := addressParam(c, "id")
	if !ok {
		return
	}

	result, err := h.service.GetByID(c.Request.Context(), userID, addressID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// UpdateAddress handles PUT /address/:id
func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	addressID, ok := addressParam(c, "id")
	if !ok {
		return
	}

	var req model.AddressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, model.NewInvalidInput(err))
		return
	}

	result, err := h.service.Update(c.Request.Context(), userID, addressID, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// DeleteAddress handles DELETE /address/:id
func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	addressID, ok := addressParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, addressID); err != nil {
		response.FromError(c, err)
		return
	}

	response.NoContent(c)
}

// ListUserAddresses handles GET /address/user/:userId
func (h *AddressHandler) ListUserAddresses(c *gin.Context) {
	userID, ok := pathUser(c)
	if !ok {
		return
	}

	results, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, results, &response.Meta{Total: len(results)})
}

// GetDefaultAddress handles GET /address/user/:userId/default
func (h *AddressHandler) GetDefaultAddress(c *gin.Context) {
	userID, ok := pathUser(c)
	if !ok {
		return
	}

	result, err := h.service.GetDefaultByUser(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// SetDefaultAddress handles POST /address/user/:userId/default/:addressId
func (h *AddressHandler) SetDefaultAddress(c *gin.Context) {
	userID, ok := pathUser(c)
	if !ok {
		return
	}
	addressID, ok := addressParam(c, "addressId")
	if !ok {
		return
	}

	result, err := h.service.SetDefault(c.Request.Context(), userID, addressID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// ClearDefaultAddress handles DELETE /address/user/:userId/default
func (h *AddressHandler) ClearDefaultAddress(c *gin.Context) {
	userID, ok := pathUser(c)
	if !ok {
		return
	}

	if err := h.service.ClearDefault(c.Request.Context(), userID); err != nil {
		response.FromError(c, err)
		return
	}

	response.NoContent(c)
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.FromError(c, model.ErrUnauthenticated)
		return uuid.Nil, false
	}
	return userID, true
}

// pathUser resolves :userId and requires it to be the caller.
func pathUser(c *gin.Context) (uuid.UUID, bool) {
	caller, ok := currentUser(c)
	if !ok {
		return uuid.Nil, false
	}

	raw := c.Param("userId")
	userID, err := uuid.Parse(raw)
	if err != nil {
		response.FromError(c, model.NewInvalidUserID(raw))
		return uuid.Nil, false
	}
	if userID != caller {
		response.FromError(c, model.ErrForbiddenUser)
		return uuid.Nil, false
	}
	return userID, true
}

func addressParam(c *gin.Context, name string) (uuid.UUID, bool) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		response.FromError(c, model.NewInvalidAddressID(raw))
		return uuid.Nil, false
	}
	return id, true
}
