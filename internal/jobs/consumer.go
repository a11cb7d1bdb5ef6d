package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"financial-query-pipeline/internal/pipeline"
	"financial-query-pipeline/pkg/llmprovider"
	"financial-query-pipeline/pkg/log"
)

const (
	popTimeout       = 5 * time.Second
	narrativeMaxToks = 512

	narrativeSystemPrompt = "You are a concise CFO assistant. Explain the " +
		"computed financial figures to a founder in plain language. Use only " +
		"the numbers and evidence provided, never invent figures."
)

// Consumer drains the generation queue, calls the LLM and writes the
// result back onto the job record for the API poller to pick up.
type Consumer struct {
	l   log.Logger
	rdb *redis.Client
	llm llmprovider.Caller
}

func NewConsumer(l log.Logger, rdb *redis.Client, llm llmprovider.Caller) *Consumer {
	return &Consumer{l: l, rdb: rdb, llm: llm}
}

// Run blocks draining jobs until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	c.l.Infof(ctx, "jobs: consumer started on %s", queueKey)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		vals, err := c.rdb.BRPop(ctx, popTimeout, queueKey).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.l.Errorf(ctx, "jobs: pop: %v", err)
			time.Sleep(time.Second)
			continue
		}

		// BRPop returns [key, value]
		jobID := vals[1]
		if err := c.ProcessOne(ctx, jobID); err != nil {
			c.l.Errorf(ctx, "jobs: process %s: %v", jobID, err)
		}
	}
}

// ProcessOne generates the narrative for one job and records the outcome.
func (c *Consumer) ProcessOne(ctx context.Context, jobID string) error {
	key := jobKey(jobID)

	payload, err := c.rdb.HGet(ctx, key, "payload").Result()
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}

	var job pipeline.GenerationJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		c.fail(ctx, key, "malformed payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	resp, err := c.llm.Call(ctx, &llmprovider.Request{
		Prompt:       buildNarrativePrompt(job),
		SystemPrompt: narrativeSystemPrompt,
		Temperature:  0.3,
		MaxTokens:    narrativeMaxToks,
	})
	if err != nil {
		c.fail(ctx, key, err.Error())
		return fmt.Errorf("llm call: %w", err)
	}

	if err := c.rdb.HSet(ctx, key, "status", StatusCompleted, "result", resp.Content).Err(); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	c.l.Infof(ctx, "jobs: completed generation job %s via %s", jobID, resp.ProviderName)
	return nil
}

func (c *Consumer) fail(ctx context.Context, key, reason string) {
	if err := c.rdb.HSet(ctx, key, "status", StatusFailed, "result", reason).Err(); err != nil {
		c.l.Errorf(ctx, "jobs: mark failed: %v", err)
	}
}

// buildNarrativePrompt renders the job into a deterministic prompt so
// identical jobs produce identical prompts.
func buildNarrativePrompt(job pipeline.GenerationJob) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", job.Query)

	if len(job.Calculations) > 0 {
		b.WriteString("Computed figures:\n")
		keys := make([]string, 0, len(job.Calculations))
		for k := range job.Calculations {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %g\n", k, job.Calculations[k])
		}
	}

	if len(job.Evidence) > 0 {
		b.WriteString("Evidence:\n")
		for _, e := range job.Evidence {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}

	b.WriteString("Write a short narrative answer grounded in the figures above.")
	return b.String()
}
