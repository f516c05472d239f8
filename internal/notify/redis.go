package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"server/internal/domain"
	"server/internal/infra"
)

// Channel is the pub/sub channel carrying job lifecycle events.
const Channel = "jobs:events"

// Event is the wire shape published on every job status transition.
type Event struct {
	JobID  string    `json:"jobId"`
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

// RedisPublisher pushes job lifecycle events to a Redis channel so
// subscription clients do not have to poll the job record. Publishing is
// best-effort: a broker outage never affects the job pipeline.
type RedisPublisher struct {
	rdb    *redis.Client
	logger infra.Logger
}

// NewRedisPublisher wraps an existing Redis client.
func NewRedisPublisher(rdb *redis.Client, logger infra.Logger) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, logger: logger}
}

// PublishJobEvent emits one event for the given transition.
func (p *RedisPublisher) PublishJobEvent(ctx context.Context, jobID string, status domain.JobStatus) {
	payload, err := json.Marshal(Event{JobID: jobID, Status: string(status), At: time.Now().UTC()})
	if err != nil {
		return
	}
	if err := p.rdb.Publish(ctx, Channel, payload).Err(); err != nil {
		p.logger.Warn().Err(err).Str("job_id", jobID).Msg("notify: publish job event failed")
	}
}
