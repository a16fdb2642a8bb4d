package main

import (
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"charmi-backend/internal/config"
	"charmi-backend/internal/infrastructure/queue"
)

// asynqServer wraps asynq.Server with startup and shutdown logging
type asynqServer struct {
	*asynq.Server
}

func setupAsynqServer(cfg *config.Config, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := queue.NewServer(cfg.Queue)

	go func() {
		log.Info().Int("concurrency", cfg.Queue.Concurrency).Msg("worker starting")
		if err := srv.Run(mux); err != nil {
			log.Fatal().Err(err).Msg("worker failed")
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown waits for in-flight tasks up to the server's shutdown timeout.
func (s *asynqServer) Shutdown() {
	log.Info().Msg("waiting for in-flight tasks")
	s.Server.Shutdown()
}
