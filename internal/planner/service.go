package planner

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/domain/itinjson"
	"server/internal/infra"
	"server/internal/providers/genai"
)

// ContentGenerator produces a decoded JSON value for a prompt. Satisfied by
// *genai.Client.
type ContentGenerator interface {
	GenerateJSON(ctx context.Context, req genai.Request) (any, error)
}

// Notifier publishes job lifecycle events for subscription clients. May be
// nil when no broker is configured; publishing is best-effort.
type Notifier interface {
	PublishJobEvent(ctx context.Context, jobID string, status domain.JobStatus)
}

// Options wires the orchestrator's collaborators.
type Options struct {
	Store     domain.JobStore
	Generator ContentGenerator
	Notifier  Notifier
	Logger    infra.Logger
}

// Service owns the job lifecycle: it creates the record synchronously,
// dispatches generation in the background, and performs exactly one terminal
// write per job. Each job's background goroutine is the sole writer to that
// job's record after creation, so no locking is needed around the store.
type Service struct {
	store     domain.JobStore
	generator ContentGenerator
	notifier  Notifier
	logger    infra.Logger

	wg    sync.WaitGroup
	now   func() time.Time
	newID func() string
}

// NewService constructs the orchestrator.
func NewService(opts Options) *Service {
	return &Service{
		store:     opts.Store,
		generator: opts.Generator,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// CreateJob validates the request, writes the initial processing record, and
// returns the new job id. The initial write completes before the id is
// returned so callers can immediately poll an existing record. Generation
// runs in a detached goroutine that outlives the request.
func (s *Service) CreateJob(ctx context.Context, destination string, durationDays int, locale string) (string, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return "", fmt.Errorf("%w: destination is required", domain.ErrInvalidInput)
	}
	if durationDays <= 0 {
		return "", fmt.Errorf("%w: durationDays must be a positive integer", domain.ErrInvalidInput)
	}

	jobID := s.newID()
	createdAt := s.now().UTC()
	patch := domain.JobPatch{
		Status:       domain.JobStatusProcessing,
		Destination:  &destination,
		DurationDays: &durationDays,
		CreatedAt:    &createdAt,
	}
	if err := s.store.Put(ctx, jobID, patch); err != nil {
		return "", fmt.Errorf("create job: %w", err)
	}
	s.publish(ctx, jobID, domain.JobStatusProcessing)

	s.wg.Add(1)
	go s.runGeneration(jobID, destination, durationDays, locale)

	return jobID, nil
}

// Wait blocks until every dispatched generation has landed its terminal
// write. Called during shutdown so in-flight jobs are not stranded in
// processing.
func (s *Service) Wait() {
	s.wg.Wait()
}

// runGeneration drives one job to its terminal state. Every failure kind —
// transport, malformed output, schema violation — collapses uniformly into a
// single failed write; nothing here crashes the process. The goroutine uses a
// fresh context because it must survive the originating request.
func (s *Service) runGeneration(jobID, destination string, durationDays int, locale string) {
	defer s.wg.Done()
	ctx := context.Background()

	decoded, err := s.generator.GenerateJSON(ctx, genai.Request{
		Prompt:     buildPrompt(destination, durationDays, locale),
		SchemaHint: itinerarySchemaHint,
	})
	if err != nil {
		s.fail(ctx, jobID, err)
		return
	}
	itinerary, err := itinjson.Validate(decoded)
	if err != nil {
		s.fail(ctx, jobID, err)
		return
	}
	s.complete(ctx, jobID, itinerary)
}

func (s *Service) complete(ctx context.Context, jobID string, itinerary *domain.Itinerary) {
	completedAt := s.now().UTC()
	patch := domain.JobPatch{
		Status:      domain.JobStatusCompleted,
		Itinerary:   itinerary,
		CompletedAt: &completedAt,
	}
	if err := s.store.Put(ctx, jobID, patch); err != nil {
		// Terminal-write failures are not retried; the job stays visible as
		// processing until an operator intervenes.
		s.logger.Error().Err(err).Str("job_id", jobID).Msg("planner: terminal write failed")
		return
	}
	s.logger.Info().Str("job_id", jobID).Int("days", len(itinerary.Days)).Msg("planner: job completed")
	s.publish(ctx, jobID, domain.JobStatusCompleted)
}

func (s *Service) fail(ctx context.Context, jobID string, cause error) {
	completedAt := s.now().UTC()
	message := cause.Error()
	patch := domain.JobPatch{
		Status:       domain.JobStatusFailed,
		ErrorMessage: &message,
		CompletedAt:  &completedAt,
	}
	if err := s.store.Put(ctx, jobID, patch); err != nil {
		s.logger.Error().Err(err).Str("job_id", jobID).Msg("planner: terminal write failed")
		return
	}
	s.logger.Warn().Str("job_id", jobID).Str("reason", message).Msg("planner: job failed")
	s.publish(ctx, jobID, domain.JobStatusFailed)
}

func (s *Service) publish(ctx context.Context, jobID string, status domain.JobStatus) {
	if s.notifier == nil {
		return
	}
	s.notifier.PublishJobEvent(ctx, jobID, status)
}
