package domain

import "time"

// JobStatus enumerates job lifecycle states. The lifecycle is forward-only:
// processing is the sole initial state, completed and failed are terminal.
type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further status transition is allowed.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job encapsulates the lifecycle of one itinerary generation request.
type Job struct {
	ID           string
	Status       JobStatus
	Destination  string
	DurationDays int
	Itinerary    *Itinerary
	ErrorMessage string
	CreatedAt    time.Time
	CompletedAt  *time.Time
}

// JobPatch carries a partial field set for a keyed upsert. Nil pointers mean
// "leave the stored value alone", mirroring COALESCE semantics in the store.
type JobPatch struct {
	Status       JobStatus
	Destination  *string
	DurationDays *int
	Itinerary    *Itinerary
	ErrorMessage *string
	CreatedAt    *time.Time
	CompletedAt  *time.Time
}
