package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/sangkips/bizsite-bff/internal/backend"
	"github.com/sangkips/bizsite-bff/internal/config"
	"github.com/sangkips/bizsite-bff/internal/queue"
	"github.com/sangkips/bizsite-bff/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	config.SetupLogger(cfg)

	if cfg.RabbitMQURL == "" || !cfg.Backend.Enabled() {
		log.Fatal().Msg("worker requires RABBITMQ_URL and BACKEND_API_URL")
	}

	// Connect to RabbitMQ
	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL, cfg.QueueName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rabbitMQ.Close()

	// Initialize dependencies
	leads := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.APIToken, cfg.Backend.Timeout)
	w := worker.NewWorker(rabbitMQ, leads)

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("received signal, shutting down")
		cancel()
	}()

	// Start worker
	if err := w.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("worker failed")
	}

	log.Info().Msg("worker stopped")
}
