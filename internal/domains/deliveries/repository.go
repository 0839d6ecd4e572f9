package deliveries

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Delivery is one attempt to send a rendered email.
type Delivery struct {
	ID                uuid.UUID
	Kind              string
	Recipient         string
	Subject           string
	Status            string
	ProviderMessageID sql.NullString
	LastError         sql.NullString
	CreatedAt         time.Time
}

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type Repository interface {
	Record(ctx context.Context, d Delivery) error
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db DBTX
}

func NewRepository(db DBTX) Repository {
	return &repository{db: db}
}

const recordDelivery = `INSERT INTO email_deliveries
    (id, kind, recipient, subject, status, provider_message_id, last_error, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

func (r *repository) Record(ctx context.Context, d Delivery) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, recordDelivery,
		d.ID.String(),
		d.Kind,
		d.Recipient,
		d.Subject,
		d.Status,
		d.ProviderMessageID,
		d.LastError,
		d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record delivery: %w", err)
	}
	return nil
}

const pruneDeliveries = `DELETE FROM email_deliveries WHERE created_at < $1`

func (r *repository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, pruneDeliveries, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune deliveries: %w", err)
	}
	return res.RowsAffected()
}

// nopRepository is used when no database is configured.
type nopRepository struct{}

func NewNopRepository() Repository {
	return nopRepository{}
}

func (nopRepository) Record(ctx context.Context, d Delivery) error {
	return nil
}

func (nopRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}
