package deliveries

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	query string
	args  []interface{}
}

type mockDB struct {
	calls        []execCall
	rowsAffected int64
	err          error
}

func (m *mockDB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	m.calls = append(m.calls, execCall{query: query, args: args})
	if m.err != nil {
		return nil, m.err
	}
	return driverResult(m.rowsAffected), nil
}

var _ DBTX = (*mockDB)(nil)

type driverResult int64

func (r driverResult) LastInsertId() (int64, error) { return 0, errors.New("not supported") }
func (r driverResult) RowsAffected() (int64, error) { return int64(r), nil }

func TestRepository_Record(t *testing.T) {
	db := &mockDB{}
	repo := NewRepository(db)

	id := uuid.New()
	err := repo.Record(context.Background(), Delivery{
		ID:                id,
		Kind:              "contact",
		Recipient:         "sales@acme.test",
		Subject:           "New contact",
		Status:            StatusSent,
		ProviderMessageID: sql.NullString{String: "msg-1", Valid: true},
	})
	require.NoError(t, err)

	require.Len(t, db.calls, 1)
	args := db.calls[0].args
	require.Len(t, args, 8)
	assert.Equal(t, id.String(), args[0])
	assert.Equal(t, "contact", args[1])
	assert.Equal(t, StatusSent, args[4])
	assert.Equal(t, sql.NullString{String: "msg-1", Valid: true}, args[5])
	assert.Equal(t, sql.NullString{}, args[6])

	createdAt, ok := args[7].(time.Time)
	require.True(t, ok)
	assert.False(t, createdAt.IsZero())
}

func TestRepository_RecordError(t *testing.T) {
	repo := NewRepository(&mockDB{err: errors.New("connection refused")})

	err := repo.Record(context.Background(), Delivery{ID: uuid.New()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record delivery")
}

func TestRepository_PruneBefore(t *testing.T) {
	db := &mockDB{rowsAffected: 7}
	repo := NewRepository(db)

	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	n, err := repo.PruneBefore(context.Background(), cutoff)
	require.NoError(t, err)

	assert.Equal(t, int64(7), n)
	require.Len(t, db.calls, 1)
	assert.Equal(t, []interface{}{cutoff}, db.calls[0].args)
}

func TestNopRepository(t *testing.T) {
	repo := NewNopRepository()

	require.NoError(t, repo.Record(context.Background(), Delivery{}))
	n, err := repo.PruneBefore(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}
