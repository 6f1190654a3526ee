package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/dsoumyadip/tb-update-handles/internal/ingest"
	"github.com/dsoumyadip/tb-update-handles/internal/models"
)

// pgPool is the part of pgxpool.Pool the collection needs.
type pgPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PGCollection stores documents as JSONB rows keyed by (collection, key).
type PGCollection struct {
	pool       pgPool
	collection string
}

// Ensure PGCollection implements the ingest.DocumentCollection interface.
var _ ingest.DocumentCollection = (*PGCollection)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS profile_documents (
  collection TEXT NOT NULL,
  key TEXT NOT NULL,
  doc JSONB NOT NULL,
  last_updated TIMESTAMPTZ NOT NULL,
  PRIMARY KEY (collection, key)
);
CREATE INDEX IF NOT EXISTS idx_profile_documents_doc_gin ON profile_documents USING GIN (doc);
`

func NewPG(ctx context.Context, dsn, collection string) (*PGCollection, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "postgres connect")
	}
	c := &PGCollection{pool: pool, collection: collection}
	if err := c.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return c, nil
}

func (c *PGCollection) migrate(ctx context.Context) error {
	if _, err := c.pool.Exec(ctx, schema); err != nil {
		return errors.Wrap(err, "postgres migrate")
	}
	return nil
}

// Set replaces the whole document; nothing from the previous row is merged.
func (c *PGCollection) Set(ctx context.Context, key string, doc map[string]any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrapf(err, "encode document %q", key)
	}
	_, err = c.pool.Exec(ctx, `
INSERT INTO profile_documents (collection, key, doc, last_updated)
VALUES ($1, $2, $3, $4)
ON CONFLICT (collection, key) DO UPDATE SET
  doc=EXCLUDED.doc, last_updated=EXCLUDED.last_updated`,
		c.collection, key, raw, lastUpdated(doc))
	if err != nil {
		return errors.Wrapf(err, "upsert document %q", key)
	}
	return nil
}

func (c *PGCollection) Get(ctx context.Context, key string) (map[string]any, error) {
	var raw []byte
	err := c.pool.QueryRow(ctx,
		`SELECT doc FROM profile_documents WHERE collection=$1 AND key=$2`,
		c.collection, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ingest.ErrProfileNotFound, key)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read document %q", key)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(err, "decode document %q", key)
	}
	return doc, nil
}

func (c *PGCollection) Close() error {
	c.pool.Close()
	return nil
}

// lastUpdated pulls the freshness stamp out of a document for the indexed
// column, falling back to now for documents written without one.
func lastUpdated(doc map[string]any) time.Time {
	if ts, ok := doc[models.FreshnessField].(time.Time); ok {
		return ts
	}
	return time.Now().UTC()
}
