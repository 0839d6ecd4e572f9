package health

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/sangkips/bizsite-bff/internal/handlers"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDisabled  = "disabled"
)

// Database is satisfied by *sql.DB.
type Database interface {
	PingContext(ctx context.Context) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// QueuePinger is satisfied by *queue.RabbitMQ.
type QueuePinger interface {
	Ping() error
}

// BackendPinger is satisfied by *backend.Client.
type BackendPinger interface {
	Ping(ctx context.Context) error
}

// Handler reports the state of every optional dependency. A nil dependency
// is reported as disabled and does not make the service unhealthy.
type Handler struct {
	db           Database
	queue        QueuePinger
	backend      BackendPinger
	mailProvider string
}

func NewHandler(db Database, queue QueuePinger, backend BackendPinger, mailProvider string) *Handler {
	return &Handler{
		db:           db,
		queue:        queue,
		backend:      backend,
		mailProvider: mailProvider,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string           `json:"status"`
	Checks    map[string]Check `json:"checks"`
	Timestamp time.Time        `json:"timestamp"`
}

// Check represents a single health check
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health performs health checks on the database, queue, mail transport and backend API
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]Check{
		"database": h.checkDatabase(ctx),
		"queue":    h.checkQueue(),
		"backend":  h.checkBackend(ctx),
		"mail":     {Status: StatusHealthy, Message: "provider: " + h.mailProvider},
	}

	overallHealthy := true
	for _, c := range checks {
		if c.Status == StatusUnhealthy {
			overallHealthy = false
		}
	}

	status := StatusHealthy
	statusCode := http.StatusOK
	if !overallHealthy {
		status = StatusUnhealthy
		statusCode = http.StatusServiceUnavailable
	}

	handlers.RespondWithJSON(w, r, statusCode, HealthResponse{
		Status:    status,
		Checks:    checks,
		Timestamp: time.Now().UTC(),
	})
}

func (h *Handler) checkDatabase(ctx context.Context) Check {
	if h.db == nil {
		return Check{Status: StatusDisabled, Message: "DB_URL not set"}
	}

	if err := h.db.PingContext(ctx); err != nil {
		return Check{
			Status:  StatusUnhealthy,
			Message: "database connection failed: " + err.Error(),
		}
	}

	// Try a simple query to verify database is actually working
	if _, err := h.db.ExecContext(ctx, "SELECT 1"); err != nil {
		return Check{
			Status:  StatusUnhealthy,
			Message: "database query failed: " + err.Error(),
		}
	}

	return Check{Status: StatusHealthy, Message: "database is accessible"}
}

func (h *Handler) checkQueue() Check {
	if h.queue == nil {
		return Check{Status: StatusDisabled, Message: "RABBITMQ_URL not set"}
	}

	if err := h.queue.Ping(); err != nil {
		return Check{
			Status:  StatusUnhealthy,
			Message: "queue connection failed: " + err.Error(),
		}
	}

	return Check{Status: StatusHealthy, Message: "queue is accessible"}
}

func (h *Handler) checkBackend(ctx context.Context) Check {
	if h.backend == nil {
		return Check{Status: StatusDisabled, Message: "BACKEND_API_URL not set"}
	}

	if err := h.backend.Ping(ctx); err != nil {
		return Check{
			Status:  StatusUnhealthy,
			Message: "backend api unreachable: " + err.Error(),
		}
	}

	return Check{Status: StatusHealthy, Message: "backend api is reachable"}
}
