package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/bizsite-bff/internal/backend"
	"github.com/sangkips/bizsite-bff/internal/config"
	"github.com/sangkips/bizsite-bff/internal/db"
	"github.com/sangkips/bizsite-bff/internal/domains/deliveries"
	"github.com/sangkips/bizsite-bff/internal/domains/submissions"
	"github.com/sangkips/bizsite-bff/internal/health"
	"github.com/sangkips/bizsite-bff/internal/mailer"
	"github.com/sangkips/bizsite-bff/internal/queue"
	"github.com/sangkips/bizsite-bff/internal/templates"
	"github.com/sangkips/bizsite-bff/internal/worker"
	"github.com/spf13/afero"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	config.SetupLogger(cfg)

	var healthDB health.Database
	deliveryRepo := deliveries.NewNopRepository()
	if cfg.DBURL != "" {
		dbConn, err := db.ConnectAndMigrate(cfg.DBURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer dbConn.Close()

		healthDB = dbConn
		deliveryRepo = deliveries.NewRepository(dbConn)

		// Start delivery log pruner
		pruner := worker.NewPruner(deliveryRepo, cfg.DeliveryRetention, cfg.PruneInterval)
		go pruner.Start()
		defer pruner.Stop()
	}

	var backendPinger health.BackendPinger
	var backendClient *backend.Client
	if cfg.Backend.Enabled() {
		backendClient = backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.APIToken, cfg.Backend.Timeout)
		backendPinger = backendClient
	}

	// Leads go through the queue when one is configured, otherwise straight to the backend
	var queuePinger health.QueuePinger
	var publisher submissions.SubmissionPublisher
	switch {
	case cfg.RabbitMQURL != "":
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL, cfg.QueueName)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rabbitMQ.Close()

		queuePinger = rabbitMQ
		publisher = rabbitMQ
	case backendClient != nil:
		publisher = worker.NewInlineForwarder(backendClient)
	}

	sender, err := mailer.New(cfg.Mail)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure mail transport")
	}

	svc := submissions.NewService(
		templates.NewSource(afero.NewOsFs(), cfg.TemplateDir),
		sender,
		deliveryRepo,
		publisher,
		submissions.Routing{
			FromAddress:   cfg.Mail.FromAddress,
			FromName:      cfg.Mail.FromName,
			ContactInbox:  cfg.Mail.ContactInbox,
			PartnersInbox: cfg.Mail.PartnersInbox,
		},
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	submissionHandler := submissions.NewHandler(svc, cfg.MaxBodyBytes)
	r.Route("/api", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
		submissionHandler.RegisterSubmissionRoutes(r)
	})

	healthHandler := health.NewHandler(healthDB, queuePinger, backendPinger, sender.Name())
	r.Get("/health", healthHandler.Health)
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("received signal, shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	log.Info().Str("mail_provider", sender.Name()).Msg("server starting on :" + cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("failed to start server")
	}

	log.Info().Msg("server stopped")
}
