package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/dsoumyadip/tb-update-handles/internal/models"
)

// ProfileStore writes stamped profiles into a document collection keyed by
// username.
type ProfileStore struct {
	docs   DocumentCollection
	now    func() time.Time
	logger *slog.Logger
}

var _ StorePort = (*ProfileStore)(nil)

func NewProfileStore(docs DocumentCollection, now func() time.Time, logger *slog.Logger) *ProfileStore {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileStore{docs: docs, now: now, logger: logger}
}

// UpsertAll writes records in order and stops at the first failure. The
// returned count is the number of documents written before it.
func (s *ProfileStore) UpsertAll(ctx context.Context, records []models.ProfileRecord) (int, error) {
	s.logger.Info("updating user profiles", "count", len(records))
	written := 0
	for _, rec := range records {
		key := rec.Username()
		if key == "" {
			return written, &PersistenceError{Written: written, Err: ErrMissingKey}
		}
		p := Stamp(rec, s.now)
		if err := s.docs.Set(ctx, key, p.Document()); err != nil {
			return written, &PersistenceError{Key: key, Written: written, Err: err}
		}
		written++
	}
	s.logger.Info("update completed", "written", written)
	return written, nil
}

func (s *ProfileStore) Get(ctx context.Context, handle models.Handle) (map[string]any, error) {
	return s.docs.Get(ctx, handle)
}
