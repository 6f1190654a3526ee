package store

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/dsoumyadip/tb-update-handles/internal/ingest"
)

// MemoryCollection is a process-local collection for dry runs.
type MemoryCollection struct {
	mu   sync.RWMutex
	docs map[string]map[string]any
}

var _ ingest.DocumentCollection = (*MemoryCollection)(nil)

func NewMemory() *MemoryCollection {
	return &MemoryCollection{docs: make(map[string]map[string]any)}
}

func (c *MemoryCollection) Set(ctx context.Context, key string, doc map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[key] = maps.Clone(doc)
	return nil
}

func (c *MemoryCollection) Get(ctx context.Context, key string) (map[string]any, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ingest.ErrProfileNotFound, key)
	}
	return maps.Clone(doc), nil
}

// Len reports how many documents are stored.
func (c *MemoryCollection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

func (c *MemoryCollection) Close() error { return nil }
