package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dsoumyadip/tb-update-handles/internal/models"
)

// BlobSource lists tracked handles from a single newline-delimited object.
type BlobSource struct {
	reader BlobReader
	bucket string
	object string
	logger *slog.Logger
}

var _ SourcePort = (*BlobSource)(nil)

func NewBlobSource(reader BlobReader, bucket, object string, logger *slog.Logger) *BlobSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &BlobSource{reader: reader, bucket: bucket, object: object, logger: logger}
}

// ListHandles reads the blob and returns every line trimmed, in file order.
// Duplicates and blank lines are passed through.
func (s *BlobSource) ListHandles(ctx context.Context) ([]models.Handle, error) {
	s.logger.Debug("reading handle list", "bucket", s.bucket, "object", s.object)
	content, err := s.reader.ReadBlob(ctx, s.bucket, s.object)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s: %w", ErrSourceUnavailable, s.bucket, s.object, err)
	}
	handles := ParseHandles(content)
	s.logger.Info("total number of handles to track", "count", len(handles))
	return handles, nil
}
