package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	TemplateDir        string   `env:"TEMPLATE_DIR" envDefault:"templates"`
	AllowedOrigins     []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	RateLimitPerMinute int      `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	MaxBodyBytes       int64    `env:"MAX_BODY_BYTES" envDefault:"65536"`

	// Optional delivery log; empty disables it.
	DBURL             string        `env:"DB_URL"`
	DeliveryRetention time.Duration `env:"DELIVERY_RETENTION" envDefault:"720h"`
	PruneInterval     time.Duration `env:"PRUNE_INTERVAL" envDefault:"1h"`

	// Optional lead queue; empty forwards inline (or not at all without a backend).
	RabbitMQURL string `env:"RABBITMQ_URL"`
	QueueName   string `env:"LEADS_QUEUE" envDefault:"lead_submissions"`

	Mail    MailConfig
	Backend BackendConfig
}

type MailConfig struct {
	Provider       string        `env:"MAIL_PROVIDER" envDefault:"log"`
	MailgunDomain  string        `env:"MAILGUN_DOMAIN"`
	MailgunAPIKey  string        `env:"MAILGUN_API_KEY"`
	MailgunAPIBase string        `env:"MAILGUN_API_BASE"`
	FromAddress    string        `env:"MAIL_FROM_ADDRESS" envDefault:"no-reply@example.com"`
	FromName       string        `env:"MAIL_FROM_NAME" envDefault:"Acme Business Suite"`
	ContactInbox   string        `env:"CONTACT_INBOX" envDefault:"sales@example.com"`
	PartnersInbox  string        `env:"PARTNERS_INBOX" envDefault:"partners@example.com"`
	SendTimeout    time.Duration `env:"MAIL_SEND_TIMEOUT" envDefault:"30s"`
}

type BackendConfig struct {
	BaseURL  string        `env:"BACKEND_API_URL"`
	APIToken string        `env:"BACKEND_API_TOKEN"`
	Timeout  time.Duration `env:"BACKEND_TIMEOUT" envDefault:"10s"`
}

// Enabled reports whether leads should be forwarded to the backend API.
func (b BackendConfig) Enabled() bool {
	return b.BaseURL != ""
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Error().Err(err).Msg("failed to parse environment")
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return nil, err
	}

	if cfg.DBURL == "" {
		log.Info().Msg("DB_URL not set, delivery log disabled")
	}
	if cfg.RabbitMQURL == "" {
		log.Info().Msg("RABBITMQ_URL not set, leads are forwarded inline")
	}
	if !cfg.Backend.Enabled() {
		log.Info().Msg("BACKEND_API_URL not set, leads are not forwarded")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if strings.EqualFold(c.Mail.Provider, "mailgun") {
		if c.Mail.MailgunDomain == "" {
			return errors.New("MAILGUN_DOMAIN is required when MAIL_PROVIDER=mailgun")
		}
		if c.Mail.MailgunAPIKey == "" {
			return errors.New("MAILGUN_API_KEY is required when MAIL_PROVIDER=mailgun")
		}
	}
	if c.Mail.ContactInbox == "" || c.Mail.PartnersInbox == "" {
		return errors.New("CONTACT_INBOX and PARTNERS_INBOX are required")
	}
	if c.RateLimitPerMinute < 1 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.PruneInterval <= 0 {
		return errors.New("PRUNE_INTERVAL must be positive")
	}
	if c.DeliveryRetention <= 0 {
		return errors.New("DELIVERY_RETENTION must be positive")
	}
	return nil
}

// SetupLogger configures the global zerolog logger from LOG_LEVEL and ENVIRONMENT.
func SetupLogger(cfg *Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
