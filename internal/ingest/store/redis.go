package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/dsoumyadip/tb-update-handles/internal/ingest"
)

// RedisCollection keeps each document as a JSON string under
// "<collection>:<key>".
type RedisCollection struct {
	client     *redis.Client
	collection string
}

var _ ingest.DocumentCollection = (*RedisCollection)(nil)

func NewRedis(url, collection string) (*RedisCollection, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	return &RedisCollection{client: redis.NewClient(opts), collection: collection}, nil
}

func (c *RedisCollection) docKey(key string) string {
	return c.collection + ":" + key
}

func (c *RedisCollection) Set(ctx context.Context, key string, doc map[string]any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrapf(err, "encode document %q", key)
	}
	if err := c.client.Set(ctx, c.docKey(key), raw, 0).Err(); err != nil {
		return errors.Wrapf(err, "redis set %q", key)
	}
	return nil
}

func (c *RedisCollection) Get(ctx context.Context, key string) (map[string]any, error) {
	raw, err := c.client.Get(ctx, c.docKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ingest.ErrProfileNotFound, key)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "redis get %q", key)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(err, "decode document %q", key)
	}
	return doc, nil
}

func (c *RedisCollection) Close() error {
	return c.client.Close()
}
