package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"charmi-backend/internal/config"
	infraCache "charmi-backend/internal/infrastructure/cache"
	"charmi-backend/internal/infrastructure/database"
	"charmi-backend/internal/infrastructure/queue"
	"charmi-backend/pkg/cache"
	"charmi-backend/pkg/jwt"

	addressHandler "charmi-backend/internal/domains/address/handler"
	addressRepo "charmi-backend/internal/domains/address/repository"
	addressService "charmi-backend/internal/domains/address/service"
	checkoutHandler "charmi-backend/internal/domains/checkout/handler"
	checkoutService "charmi-backend/internal/domains/checkout/service"
	locationHandler "charmi-backend/internal/domains/location/handler"
	locationRepo "charmi-backend/internal/domains/location/repository"
	locationService "charmi-backend/internal/domains/location/service"
	orderHandler "charmi-backend/internal/domains/order/handler"
	orderRepo "charmi-backend/internal/domains/order/repository"
	orderService "charmi-backend/internal/domains/order/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every long-lived dependency of the API process.
// Build order: config, infrastructure, repositories, services, handlers.
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *infraCache.RedisClient // nil when Redis was unreachable at startup
	Cache      cache.Cache
	JWTManager *jwt.Manager
	Queue      *asynq.Client

	// Repositories
	LocationRepo locationRepo.RepositoryInterface
	AddressRepo  addressRepo.RepositoryInterface
	OrderRepo    orderRepo.RepositoryInterface

	// Services
	LocationService locationService.ServiceInterface
	AddressService  addressService.ServiceInterface
	OrderService    orderService.ServiceInterface
	CheckoutService checkoutService.ServiceInterface

	// Handlers
	LocationHandler *locationHandler.LocationHandler
	AddressHandler  *addressHandler.AddressHandler
	OrderHandler    *orderHandler.OrderHandler
	CheckoutHandler *checkoutHandler.CheckoutHandler
}

// NewContainer loads the configuration and builds the whole dependency graph.
func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewContainerWithConfig(cfg)
}

func NewContainerWithConfig(cfg *config.Config) (*Container, error) {
	log.Info().Str("env", cfg.App.Environment).Msg("initializing container")

	c := &Container{Config: cfg}

	if err := c.initInfrastructure(); err != nil {
		c.Cleanup()
		return nil, err
	}
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("container ready")
	return c, nil
}

// ========================================
// STEP 1: INFRASTRUCTURE
// ========================================
func (c *Container) initInfrastructure() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.NewPostgresDB(c.Config.DBConfig())
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	// The location cache is optional. Without Redis every lookup goes to Postgres.
	redisClient := infraCache.NewRedisClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := redisClient.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, location cache disabled")
		_ = redisClient.Close()
		c.Cache = cache.Noop{}
	} else {
		c.Redis = redisClient
		c.Cache = infraCache.NewRedisCache(redisClient.Client, "charmi")
	}

	c.JWTManager = jwt.NewManager(c.Config.JWT.Secret, c.Config.JWT.AccessTokenExpiry)
	c.Queue = queue.NewClient(c.Config.Queue)

	return nil
}

// ========================================
// STEP 2: REPOSITORIES
// ========================================
func (c *Container) initRepositories() {
	c.LocationRepo = locationRepo.NewPostgresRepository(c.DB.Pool)
	c.AddressRepo = addressRepo.NewPostgresRepository(c.DB.Pool)
	c.OrderRepo = orderRepo.NewPostgresRepository(c.DB.Pool)
}

// ========================================
// STEP 3: SERVICES
// ========================================
func (c *Container) initServices() {
	c.LocationService = locationService.NewLocationService(c.LocationRepo, c.Cache, c.Config.Cache.LocationTTL)
	c.AddressService = addressService.NewAddressService(c.AddressRepo, c.LocationService)
	c.OrderService = orderService.NewOrderService(c.OrderRepo, c.Queue)
	c.CheckoutService = checkoutService.NewCheckoutService(c.AddressService, c.LocationService, c.OrderService)
}

// ========================================
// STEP 4: HANDLERS
// ========================================
func (c *Container) initHandlers() {
	c.LocationHandler = locationHandler.NewLocationHandler(c.LocationService)
	c.AddressHandler = addressHandler.NewAddressHandler(c.AddressService)
	c.OrderHandler = orderHandler.NewOrderHandler(c.OrderService)
	c.CheckoutHandler = checkoutHandler.NewCheckoutHandler(c.CheckoutService)
}

// Cleanup releases everything opened by the container. Safe on a partially built one.
func (c *Container) Cleanup() {
	log.Info().Msg("cleaning up resources")

	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close queue client")
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
