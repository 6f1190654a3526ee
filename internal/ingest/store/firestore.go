package store

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dsoumyadip/tb-update-handles/internal/ingest"
)

// FirestoreCollection writes each profile as a document whose ID is the key.
type FirestoreCollection struct {
	client     *firestore.Client
	collection string
}

var _ ingest.DocumentCollection = (*FirestoreCollection)(nil)

// NewFirestore honours FIRESTORE_EMULATOR_HOST and application default
// credentials, like every other Google client.
func NewFirestore(ctx context.Context, projectID, collection string) (*FirestoreCollection, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, errors.Wrap(err, "firestore client")
	}
	return &FirestoreCollection{client: client, collection: collection}, nil
}

func validDocID(key string) error {
	if key == "" || strings.Contains(key, "/") {
		return fmt.Errorf("invalid document id %q", key)
	}
	return nil
}

// Set without merge options replaces the document entirely.
func (c *FirestoreCollection) Set(ctx context.Context, key string, doc map[string]any) error {
	if err := validDocID(key); err != nil {
		return err
	}
	if _, err := c.client.Collection(c.collection).Doc(key).Set(ctx, doc); err != nil {
		return errors.Wrapf(err, "firestore set %s/%s", c.collection, key)
	}
	return nil
}

func (c *FirestoreCollection) Get(ctx context.Context, key string) (map[string]any, error) {
	if err := validDocID(key); err != nil {
		return nil, err
	}
	snap, err := c.client.Collection(c.collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("%w: %s", ingest.ErrProfileNotFound, key)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "firestore get %s/%s", c.collection, key)
	}
	return snap.Data(), nil
}

func (c *FirestoreCollection) Close() error {
	return c.client.Close()
}
