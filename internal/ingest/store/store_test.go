package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsoumyadip/tb-update-handles/internal/ingest"
)

func newMockPG(t *testing.T) (*PGCollection, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &PGCollection{pool: mock, collection: "tb-handles"}, mock
}

func TestPGCollection_Set_Upserts(t *testing.T) {
	c, mock := newMockPG(t)
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectExec("INSERT INTO profile_documents").
		WithArgs("tb-handles", "alice", pgxmock.AnyArg(), ts).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := c.Set(context.Background(), "alice", map[string]any{"username": "alice", "last_updated": ts})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGCollection_Set_Error(t *testing.T) {
	c, mock := newMockPG(t)
	mock.ExpectExec("INSERT INTO profile_documents").
		WillReturnError(assert.AnError)

	err := c.Set(context.Background(), "alice", map[string]any{"username": "alice"})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), `upsert document "alice"`)
}

func TestPGCollection_Get(t *testing.T) {
	c, mock := newMockPG(t)
	mock.ExpectQuery("SELECT doc FROM profile_documents").
		WithArgs("tb-handles", "alice").
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).AddRow([]byte(`{"username":"alice","verified":true}`)))

	doc, err := c.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", doc["username"])
	assert.Equal(t, true, doc["verified"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGCollection_Get_NotFound(t *testing.T) {
	c, mock := newMockPG(t)
	mock.ExpectQuery("SELECT doc FROM profile_documents").
		WithArgs("tb-handles", "ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := c.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, ingest.ErrProfileNotFound)
}

func TestPGCollection_Migrate(t *testing.T) {
	c, mock := newMockPG(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS profile_documents").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, c.migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
