package domain

import "context"

// JobStore defines persistence for job records. Put upserts a partial field
// set against the job id; the generation pipeline only ever writes forward
// state and never reads a record back. GetByID exists for the polling
// endpoint alone.
type JobStore interface {
	Put(ctx context.Context, jobID string, patch JobPatch) error
	GetByID(ctx context.Context, jobID string) (*Job, error)
}
