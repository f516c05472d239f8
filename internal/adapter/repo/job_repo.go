package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// JobStorePG implements domain.JobStore on PostgreSQL. Put is a keyed upsert:
// nil patch fields leave stored values untouched via COALESCE, so applying
// the same patch twice is safe.
type JobStorePG struct {
	pool *pgxpool.Pool
}

// NewJobStore creates a job store backed by PostgreSQL.
func NewJobStore(pool *pgxpool.Pool) *JobStorePG {
	return &JobStorePG{pool: pool}
}

// Put upserts the patch fields into the record keyed by jobID. created_at is
// written once at insert and never updated.
func (s *JobStorePG) Put(ctx context.Context, jobID string, patch domain.JobPatch) error {
	itineraryJSON, err := marshalItinerary(patch.Itinerary)
	if err != nil {
		return fmt.Errorf("encode itinerary: %w", err)
	}
	query := `
INSERT INTO jobs (id, status, destination, duration_days, itinerary, error_message, created_at, completed_at)
VALUES ($1, $2, COALESCE($3, ''), COALESCE($4, 0), $5, $6, COALESCE($7, NOW()), $8)
ON CONFLICT (id) DO UPDATE
SET status = EXCLUDED.status,
    destination = COALESCE($3, jobs.destination),
    duration_days = COALESCE($4, jobs.duration_days),
    itinerary = COALESCE($5, jobs.itinerary),
    error_message = COALESCE($6, jobs.error_message),
    completed_at = COALESCE($8, jobs.completed_at);
`
	_, err = s.pool.Exec(ctx, query,
		jobID,
		patch.Status,
		patch.Destination,
		patch.DurationDays,
		itineraryJSON,
		patch.ErrorMessage,
		patch.CreatedAt,
		patch.CompletedAt,
	)
	return err
}

// GetByID fetches a job record. Used by the polling endpoint only; the
// generation pipeline never reads.
func (s *JobStorePG) GetByID(ctx context.Context, jobID string) (*domain.Job, error) {
	query := `
SELECT id, status, destination, duration_days, itinerary, error_message, created_at, completed_at
FROM jobs
WHERE id = $1;
`
	row := s.pool.QueryRow(ctx, query, jobID)
	var (
		job           domain.Job
		itineraryJSON []byte
		errMsg        *string
	)
	if err := row.Scan(
		&job.ID,
		&job.Status,
		&job.Destination,
		&job.DurationDays,
		&itineraryJSON,
		&errMsg,
		&job.CreatedAt,
		&job.CompletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if errMsg != nil {
		job.ErrorMessage = *errMsg
	}
	if len(itineraryJSON) > 0 {
		var days []domain.DayPlan
		if err := json.Unmarshal(itineraryJSON, &days); err != nil {
			return nil, fmt.Errorf("decode itinerary: %w", err)
		}
		job.Itinerary = &domain.Itinerary{Days: days}
	}
	return &job, nil
}

// marshalItinerary stores the day-plan sequence itself, so the JSONB column
// mirrors the shape the record endpoint serves.
func marshalItinerary(it *domain.Itinerary) ([]byte, error) {
	if it == nil {
		return nil, nil
	}
	return json.Marshal(it.Days)
}

var _ domain.JobStore = (*JobStorePG)(nil)
