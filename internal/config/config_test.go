package config

import (
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "templates", cfg.TemplateDir)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 20, cfg.RateLimitPerMinute)
	assert.Equal(t, int64(65536), cfg.MaxBodyBytes)
	assert.Equal(t, 720*time.Hour, cfg.DeliveryRetention)
	assert.Equal(t, "lead_submissions", cfg.QueueName)
	assert.Equal(t, "log", cfg.Mail.Provider)
	assert.Equal(t, 30*time.Second, cfg.Mail.SendTimeout)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.False(t, cfg.Backend.Enabled())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://acme.test,https://www.acme.test")
	t.Setenv("MAIL_PROVIDER", "mailgun")
	t.Setenv("MAILGUN_DOMAIN", "mg.acme.test")
	t.Setenv("MAILGUN_API_KEY", "key-123")
	t.Setenv("BACKEND_API_URL", "https://api.acme.test")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"https://acme.test", "https://www.acme.test"}, cfg.AllowedOrigins)
	assert.Equal(t, "mg.acme.test", cfg.Mail.MailgunDomain)
	assert.True(t, cfg.Backend.Enabled())
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.True(t, cfg.IsProduction())
}

func TestLoadConfig_MailgunRequiresCredentials(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MAIL_PROVIDER", "mailgun")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAILGUN_DOMAIN")
}

func TestLoadConfig_NonPositiveDurations(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{name: "zero prune interval", key: "PRUNE_INTERVAL", value: "0s", wantErr: "PRUNE_INTERVAL"},
		{name: "negative prune interval", key: "PRUNE_INTERVAL", value: "-1m", wantErr: "PRUNE_INTERVAL"},
		{name: "zero retention", key: "DELIVERY_RETENTION", value: "0s", wantErr: "DELIVERY_RETENTION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MAIL_SEND_TIMEOUT", "soon")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestSetupLogger(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	SetupLogger(&Config{LogLevel: "debug", Environment: "production"})
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	SetupLogger(&Config{LogLevel: "nonsense", Environment: "production"})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

// chdir switches the working directory to dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Errorf("restore working directory: %v", err)
		}
	})
}
