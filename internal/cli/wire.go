package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dsoumyadip/tb-update-handles/internal/api"
	"github.com/dsoumyadip/tb-update-handles/internal/config"
	"github.com/dsoumyadip/tb-update-handles/internal/credential"
	"github.com/dsoumyadip/tb-update-handles/internal/ingest"
	"github.com/dsoumyadip/tb-update-handles/internal/ingest/blob"
	"github.com/dsoumyadip/tb-update-handles/internal/ingest/store"
)

type closer interface{ Close() error }

// App holds the wired pipeline and whatever clients need closing after it.
type App struct {
	API     *api.API
	closers []closer
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	return errors.Join(errs...)
}

// Build constructs every component from cfg. Clients are created here and
// injected; nothing below constructs its own.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	app := &App{}

	reader, err := newBlobReader(ctx, cfg.Blob)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, reader)

	docs, err := newCollection(ctx, cfg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.closers = append(app.closers, docs)

	creds, err := newCredentialProvider(cfg.Credential, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	svc := ingest.New(
		ingest.NewBlobSource(reader, cfg.Blob.Bucket, cfg.Blob.Object, logger),
		ingest.NewHTTPFetcher(cfg.API.URL, cfg.API.Timeout, cfg.API.MaxBatch, logger),
		ingest.NewProfileStore(docs, time.Now, logger),
		creds,
		time.Now,
		logger,
	)
	app.API = api.New(svc)
	return app, nil
}

type blobReader interface {
	ingest.BlobReader
	closer
}

func newBlobReader(ctx context.Context, cfg config.BlobConfig) (blobReader, error) {
	switch cfg.Backend {
	case "gcs":
		return blob.NewGCS(ctx)
	case "file":
		return blob.NewFile(cfg.Dir), nil
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.Backend)
	}
}

type collection interface {
	ingest.DocumentCollection
	closer
}

func newCollection(ctx context.Context, cfg config.Config) (collection, error) {
	switch cfg.Store.Backend {
	case "firestore":
		return store.NewFirestore(ctx, cfg.Store.Project, cfg.Store.Collection)
	case "postgres":
		return store.NewPG(ctx, cfg.PG.BuildDSN(), cfg.Store.Collection)
	case "redis":
		return store.NewRedis(cfg.Redis.URL, cfg.Store.Collection)
	case "memory":
		return store.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func newCredentialProvider(cfg config.CredentialConfig, logger *slog.Logger) (ingest.CredentialProvider, error) {
	switch cfg.Source {
	case "env":
		return credential.NewEnv(cfg.Env), nil
	case "kubernetes":
		return credential.NewKubernetesSecret(cfg.Namespace, cfg.Secret, cfg.Key, logger)
	default:
		return nil, fmt.Errorf("unknown credential source %q", cfg.Source)
	}
}
