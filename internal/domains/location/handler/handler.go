package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"charmi-backend/internal/domains/location/model"
	"charmi-backend/internal/domains/location/service"
	"charmi-backend/internal/shared/response"
)

type LocationHandler struct {
	service service.ServiceInterface
}

func NewLocationHandler(s service.ServiceInterface) *LocationHandler {
	return &LocationHandler{service: s}
}

// ListCountries GET /country
func (h *LocationHandler) ListCountries(c *gin.Context) {
	countries, err := h.service.ListCountries(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, countries, &response.Meta{Total: len(countries)})
}

// GetCountry GET /country/:id
func (h *LocationHandler) GetCountry(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	country, err := h.service.GetCountry(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, country)
}

// ListCities GET /cities
func (h *LocationHandler) ListCities(c *gin.Context) {
	cities, err := h.service.ListCities(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, cities, &response.Meta{Total: len(cities)})
}

// GetCity GET /cities/:id
func (h *LocationHandler) GetCity(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	city, err := h.service.GetCity(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, city)
}

// ListCitiesByCountry GET /cities/by-country/:countryId
func (h *LocationHandler) ListCitiesByCountry(c *gin.Context) {
	countryID, ok := pathID(c, "countryId")
	if !ok {
		return
	}
	cities, err := h.service.ListCitiesByCountry(c.Request.Context(), countryID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, cities, &response.Meta{Total: len(cities)})
}

// GetDistrict GET /district/:id
func (h *LocationHandler) GetDistrict(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	district, err := h.service.GetDistrict(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, district)
}

// ListDistrictsByCity GET /district/by-city/:cityId
func (h *LocationHandler) ListDistrictsByCity(c *gin.Context) {
	cityID, ok := pathID(c, "cityId")
	if !ok {
		return
	}
	districts, err := h.service.ListDistrictsByCity(c.Request.Context(), cityID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, districts, &response.Meta{Total: len(districts)})
}

// ResolveNames GET /locations/resolve?countryId=&cityId=&districtId=
func (h *LocationHandler) ResolveNames(c *gin.Context) {
	var triple model.Triple
	if err := c.ShouldBindQuery(&triple); err != nil {
		response.FromError(c, model.NewInvalidTriple(err))
		return
	}

	names, err := h.service.ResolveNames(c.Request.Context(), triple)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, names)
}

func pathID(c *gin.Context, param string) (int64, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		response.FromError(c, model.NewInvalidID(param, raw))
		return 0, false
	}
	return id, true
}
