package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"charmi-backend/internal/config"
)

const healthAddr = ":9999"

// startServices checks the queue backend before serving, then exposes /health and /ready.
func startServices(cfg *config.Config) error {
	client := redis.NewClient(&redis.Options{Addr: cfg.Queue.RedisAddr, DB: cfg.Queue.RedisDB})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("queue redis ping: %w", err)
	}
	log.Info().Str("addr", cfg.Queue.RedisAddr).Msg("queue redis reachable")

	go startHealthCheckServer()
	return nil
}

func startHealthCheckServer() {
	r := gin.New()
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "service": "charmi-worker"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "READY"})
	})

	log.Info().Str("addr", healthAddr).Msg("worker health server starting")
	if err := r.Run(healthAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("worker health server failed")
	}
}
