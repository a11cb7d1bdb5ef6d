package pipeline

import (
	"context"
	"fmt"
	"time"
)

const (
	defaultPollInterval = 500 * time.Millisecond
	defaultPollAttempts = 40
)

// Job states the poller understands.
const (
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// GenerationJob is the payload handed to the out-of-process AI worker.
type GenerationJob struct {
	OrgID        string             `json:"org_id"`
	Query        string             `json:"query"`
	Calculations map[string]float64 `json:"calculations,omitempty"`
	Evidence     []string           `json:"evidence,omitempty"`
}

// AsyncWorker delegates narrative generation to a queue-backed worker.
type AsyncWorker interface {
	EnqueueGeneration(ctx context.Context, job GenerationJob) (jobID string, err error)
	JobStatus(ctx context.Context, jobID string) (status, result string, err error)
}

// waitForJob polls the persisted job record at a fixed interval for a
// bounded number of attempts. Non-completion within the window is a
// failure; the caller falls back.
func (c *implController) waitForJob(ctx context.Context, jobID string) (string, error) {
	for attempt := 0; attempt < c.pollAttempts; attempt++ {
		status, result, err := c.async.JobStatus(ctx, jobID)
		if err != nil {
			return "", fmt.Errorf("job %s status: %w", jobID, err)
		}
		switch status {
		case JobCompleted:
			return result, nil
		case JobFailed:
			return "", fmt.Errorf("job %s failed", jobID)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
	return "", fmt.Errorf("job %s not completed after %d attempts", jobID, c.pollAttempts)
}
