package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeBlob struct {
	content []byte
	err     error
	reads   int
}

func (f *fakeBlob) ReadBlob(ctx context.Context, bucket, object string) ([]byte, error) {
	f.reads++
	if f.err != nil {
		return nil, f.err
	}
	return f.content, nil
}

type fakeCreds struct {
	token string
	err   error
}

func (f fakeCreds) Token(ctx context.Context) (string, error) { return f.token, f.err }

// memDocs is an in-memory DocumentCollection that records every Set.
type memDocs struct {
	mu     sync.Mutex
	docs   map[string]map[string]any
	sets   []string
	failOn string
}

func newMemDocs() *memDocs { return &memDocs{docs: map[string]map[string]any{}} }

func (m *memDocs) Set(ctx context.Context, key string, doc map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key == m.failOn {
		return errors.New("write rejected")
	}
	m.sets = append(m.sets, key)
	m.docs[key] = doc
	return nil
}

func (m *memDocs) Get(ctx context.Context, key string) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[key]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return d, nil
}
