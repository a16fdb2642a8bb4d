package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"charmi-backend/internal/shared/middleware"
	"charmi-backend/internal/shared/response"
	"charmi-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(),
	)

	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found")
	})

	router.GET("/health", healthCheckHandler(c))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		auth := middleware.AuthMiddleware(c.JWTManager)

		setupLocationRoutes(v1, c)
		setupAddressRoutes(v1, c, auth)
		setupCheckoutRoutes(v1, c, auth)
	}

	return router
}

// ========================================
// LOCATION ROUTES
// ========================================
// Reference data is public.
func setupLocationRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/country", c.LocationHandler.ListCountries)
	v1.GET("/country/:id", c.LocationHandler.GetCountry)

	cities := v1.Group("/cities")
	{
		cities.GET("", c.LocationHandler.ListCities)
		cities.GET("/:id", c.LocationHandler.GetCity)
		cities.GET("/by-country/:countryId", c.LocationHandler.ListCitiesByCountry)
	}

	district := v1.Group("/district")
	{
		district.GET("/:id", c.LocationHandler.GetDistrict)
		district.GET("/by-city/:cityId", c.LocationHandler.ListDistrictsByCity)
	}

	v1.GET("/locations/resolve", c.LocationHandler.ResolveNames)
}

// ========================================
// ADDRESS ROUTES
// ========================================
func setupAddressRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	address := v1.Group("/address")
	address.Use(auth)
	{
		address.POST("", c.AddressHandler.CreateAddress)
		address.GET("/:id", c.AddressHandler.GetAddressByID)
		address.PUT("/:id", c.AddressHandler.UpdateAddress)
		address.DELETE("/:id", c.AddressHandler.DeleteAddress)

		address.GET("/user/:userId", c.AddressHandler.ListUserAddresses)
		address.GET("/user/:userId/default", c.AddressHandler.GetDefaultAddress)
		address.POST("/user/:userId/default/:addressId", c.AddressHandler.SetDefaultAddress)
		address.DELETE("/user/:userId/default", c.AddressHandler.ClearDefaultAddress)
	}
}

// ========================================
// CHECKOUT & ORDER ROUTES
// ========================================
func setupCheckoutRoutes(v1 *gin.RouterGroup, c *container.Container, auth gin.HandlerFunc) {
	v1.POST("/checkout/prepare", auth, c.CheckoutHandler.PrepareCheckout)

	orders := v1.Group("/orders")
	orders.Use(auth)
	{
		orders.POST("", c.CheckoutHandler.SubmitOrder)
		orders.GET("", c.OrderHandler.ListOrders)
		orders.GET("/:id", c.OrderHandler.GetOrderDetail)
	}
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = "error: " + err.Error()
			}
		}

		// Redis only backs the location cache, so an outage degrades but does not fail health.
		redisStatus := "ok"
		{
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = "error: " + err.Error()
				health["status"] = "degraded"
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			health["status"] = "unavailable"
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
