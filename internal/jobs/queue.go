package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"financial-query-pipeline/internal/pipeline"
	"financial-query-pipeline/pkg/log"
)

const (
	queueKey = "jobs:generation"
	jobTTL   = 10 * time.Minute

	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

func jobKey(id string) string { return "job:" + id }

// Queue is the redis-list job queue the API enqueues narrative
// generation onto. The consumer binary drains it.
type Queue struct {
	l   log.Logger
	rdb *redis.Client
}

var _ pipeline.AsyncWorker = (*Queue)(nil)

func NewQueue(l log.Logger, rdb *redis.Client) *Queue {
	return &Queue{l: l, rdb: rdb}
}

// EnqueueGeneration persists the job record and pushes its ID onto the
// work list. Records expire so abandoned jobs do not accumulate.
func (q *Queue) EnqueueGeneration(ctx context.Context, job pipeline.GenerationJob) (string, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("marshal job: %w", err)
	}

	jobID := uuid.NewString()
	key := jobKey(jobID)

	pipe := q.rdb.TxPipeline()
	pipe.HSet(ctx, key, "status", StatusPending, "payload", payload)
	pipe.Expire(ctx, key, jobTTL)
	pipe.LPush(ctx, queueKey, jobID)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("enqueue job: %w", err)
	}

	q.l.Infof(ctx, "jobs: enqueued generation job %s for org %s", jobID, job.OrgID)
	return jobID, nil
}

// JobStatus reads the job record. An expired or unknown job reports failed.
func (q *Queue) JobStatus(ctx context.Context, jobID string) (string, string, error) {
	fields, err := q.rdb.HGetAll(ctx, jobKey(jobID)).Result()
	if err != nil {
		return "", "", fmt.Errorf("job %s: %w", jobID, err)
	}
	if len(fields) == 0 {
		return StatusFailed, "", nil
	}
	return fields["status"], fields["result"], nil
}
