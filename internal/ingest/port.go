package ingest

import (
	"context"

	"github.com/dsoumyadip/tb-update-handles/internal/models"
)

// BlobReader fetches a whole object from a blob store.
type BlobReader interface {
	ReadBlob(ctx context.Context, bucket, object string) ([]byte, error)
}

// DocumentCollection is a keyed document store. Set creates or fully replaces
// the document at key; Get returns ErrProfileNotFound for absent keys.
type DocumentCollection interface {
	Set(ctx context.Context, key string, doc map[string]any) error
	Get(ctx context.Context, key string) (map[string]any, error)
}

// CredentialProvider returns the bearer token for the profile API. An empty
// token with a nil error means no credential is configured.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

type SourcePort interface {
	ListHandles(ctx context.Context) ([]models.Handle, error)
}

type FetcherPort interface {
	FetchProfiles(ctx context.Context, handles []models.Handle, token string) ([]models.ProfileRecord, error)
}

type StorePort interface {
	UpsertAll(ctx context.Context, records []models.ProfileRecord) (int, error)
	Get(ctx context.Context, handle models.Handle) (map[string]any, error)
}
