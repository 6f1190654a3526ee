// Package blob holds the object-store readers the handle source can read from.
package blob

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"

	"github.com/dsoumyadip/tb-update-handles/internal/ingest"
)

type GCSReader struct {
	client *storage.Client
}

var _ ingest.BlobReader = (*GCSReader)(nil)

func NewGCS(ctx context.Context) (*GCSReader, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "storage client")
	}
	return &GCSReader{client: client}, nil
}

func (r *GCSReader) ReadBlob(ctx context.Context, bucket, object string) ([]byte, error) {
	rc, err := r.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "open gs://%s/%s", bucket, object)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "read gs://%s/%s", bucket, object)
	}
	return content, nil
}

func (r *GCSReader) Close() error {
	return r.client.Close()
}
