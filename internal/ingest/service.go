package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dsoumyadip/tb-update-handles/internal/metrics"
	"github.com/dsoumyadip/tb-update-handles/internal/models"
)

// State is a pipeline run's position in Idle -> FetchingHandles ->
// QueryingProfiles -> PersistingResults -> Done, or Failed from any stage.
type State string

const (
	StateIdle              State = "idle"
	StateFetchingHandles   State = "fetching_handles"
	StateQueryingProfiles  State = "querying_profiles"
	StatePersistingResults State = "persisting_results"
	StateDone              State = "done"
	StateFailed            State = "failed"
)

// Result summarises one run. On failure State is StateFailed, FailedIn names
// the stage that failed and the counts cover what happened before it.
type Result struct {
	RunID      string
	State      State
	FailedIn   State
	Handles    int
	Fetched    int
	Omitted    int
	Written    int
	StartedAt  time.Time
	FinishedAt time.Time
}

type Service struct {
	source  SourcePort
	fetcher FetcherPort
	store   StorePort
	creds   CredentialProvider
	now     func() time.Time
	logger  *slog.Logger
	tracer  trace.Tracer
}

func New(source SourcePort, fetcher FetcherPort, store StorePort, creds CredentialProvider, now func() time.Time, logger *slog.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		source:  source,
		fetcher: fetcher,
		store:   store,
		creds:   creds,
		now:     now,
		logger:  logger,
		tracer:  otel.Tracer("github.com/dsoumyadip/tb-update-handles/internal/ingest"),
	}
}

// Run executes one refresh: credential, handle list, profile lookup, upsert.
// Any stage failure aborts the run and the originating error is returned as is.
func (s *Service) Run(ctx context.Context) (Result, error) {
	res := Result{RunID: uuid.NewString(), State: StateIdle, StartedAt: s.now().UTC()}
	log := s.logger.With("run_id", res.RunID)

	ctx, span := s.tracer.Start(ctx, "ingest.Run", trace.WithAttributes(attribute.String("run.id", res.RunID)))
	defer span.End()

	fail := func(err error) (Result, error) {
		res.FailedIn = res.State
		res.State = StateFailed
		res.FinishedAt = s.now().UTC()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.RecordRun("failure", Kind(err), res.FinishedAt)
		metrics.RecordProfiles(res.Handles, res.Fetched, res.Omitted, res.Written)
		log.Error("run failed",
			"stage", res.FailedIn,
			"error_kind", Kind(err),
			"error", err,
			"written", res.Written)
		return res, err
	}

	token, err := s.creds.Token(ctx)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrAuthMissing, err))
	}
	if token == "" {
		return fail(ErrAuthMissing)
	}

	s.transition(log, &res, StateFetchingHandles)
	var handles []models.Handle
	if err := s.stage(ctx, "list_handles", func(ctx context.Context) error {
		var err error
		handles, err = s.source.ListHandles(ctx)
		return err
	}); err != nil {
		return fail(err)
	}
	res.Handles = len(handles)

	s.transition(log, &res, StateQueryingProfiles)
	var records []models.ProfileRecord
	if err := s.stage(ctx, "fetch_profiles", func(ctx context.Context) error {
		var err error
		records, err = s.fetcher.FetchProfiles(ctx, handles, token)
		return err
	}); err != nil {
		return fail(err)
	}
	res.Fetched = len(records)
	res.Omitted = max(res.Handles-res.Fetched, 0)

	s.transition(log, &res, StatePersistingResults)
	if err := s.stage(ctx, "upsert_profiles", func(ctx context.Context) error {
		var err error
		res.Written, err = s.store.UpsertAll(ctx, records)
		return err
	}); err != nil {
		return fail(err)
	}

	s.transition(log, &res, StateDone)
	res.FinishedAt = s.now().UTC()
	span.SetAttributes(
		attribute.Int("run.handles", res.Handles),
		attribute.Int("run.written", res.Written),
	)
	metrics.RecordRun("success", "", res.FinishedAt)
	metrics.RecordProfiles(res.Handles, res.Fetched, res.Omitted, res.Written)
	log.Info("run completed",
		"handles", res.Handles,
		"fetched", res.Fetched,
		"omitted", res.Omitted,
		"written", res.Written,
		"duration", res.FinishedAt.Sub(res.StartedAt))
	return res, nil
}

// Profile returns the persisted document for handle.
func (s *Service) Profile(ctx context.Context, handle models.Handle) (map[string]any, error) {
	return s.store.Get(ctx, handle)
}

func (s *Service) transition(log *slog.Logger, res *Result, to State) {
	log.Debug("state transition", "from", res.State, "to", to)
	res.State = to
}

func (s *Service) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "ingest."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	metrics.ObserveStage(name, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
