package blob

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/dsoumyadip/tb-update-handles/internal/ingest"
)

// FileReader maps bucket/object onto Dir/bucket/object on local disk.
type FileReader struct {
	Dir string
}

var _ ingest.BlobReader = (*FileReader)(nil)

func NewFile(dir string) *FileReader {
	return &FileReader{Dir: dir}
}

func (r *FileReader) ReadBlob(ctx context.Context, bucket, object string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(r.Dir, bucket, object)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return content, nil
}

func (r *FileReader) Close() error { return nil }
