package jobs_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial-query-pipeline/internal/jobs"
	"financial-query-pipeline/internal/pipeline"
	"financial-query-pipeline/pkg/llmprovider"
	"financial-query-pipeline/pkg/log"
)

type fakeLLM struct {
	lastPrompt string
	err        error
}

func (f *fakeLLM) Call(_ context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	f.lastPrompt = req.Prompt
	if f.err != nil {
		return nil, f.err
	}
	return &llmprovider.Response{
		Content:      "Your runway is 12 months at the current burn.",
		ProviderName: "gemini",
		ModelName:    "gemini-2.5-flash",
	}, nil
}

func setup(t *testing.T) (*redis.Client, *jobs.Queue) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return client, jobs.NewQueue(log.NewNop(), client)
}

func TestEnqueueThenProcessCompletes(t *testing.T) {
	client, queue := setup(t)
	llm := &fakeLLM{}
	consumer := jobs.NewConsumer(log.NewNop(), client, llm)
	ctx := context.Background()

	jobID, err := queue.EnqueueGeneration(ctx, pipeline.GenerationJob{
		OrgID:        "org-1",
		Query:        "what is our runway?",
		Calculations: map[string]float64{"runway": 12},
		Evidence:     []string{"model run 2026-08"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, jobID)

	status, _, err := queue.JobStatus(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, jobs.StatusPending, status)

	require.NoError(t, consumer.ProcessOne(ctx, jobID))

	status, result, err := queue.JobStatus(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, jobs.StatusCompleted, status)
	assert.Contains(t, result, "12 months")

	assert.Contains(t, llm.lastPrompt, "what is our runway?")
	assert.Contains(t, llm.lastPrompt, "runway: 12")
	assert.Contains(t, llm.lastPrompt, "model run 2026-08")
}

func TestProcessLLMFailureMarksFailed(t *testing.T) {
	client, queue := setup(t)
	llm := &fakeLLM{err: errors.New("provider down")}
	consumer := jobs.NewConsumer(log.NewNop(), client, llm)
	ctx := context.Background()

	jobID, err := queue.EnqueueGeneration(ctx, pipeline.GenerationJob{OrgID: "org-1", Query: "runway?"})
	require.NoError(t, err)

	require.Error(t, consumer.ProcessOne(ctx, jobID))

	status, result, err := queue.JobStatus(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, jobs.StatusFailed, status)
	assert.Contains(t, result, "provider down")
}

func TestJobStatusUnknownIsFailed(t *testing.T) {
	_, queue := setup(t)

	status, _, err := queue.JobStatus(context.Background(), "no-such-job")
	require.NoError(t, err)
	assert.Equal(t, jobs.StatusFailed, status)
}

func TestPromptIsDeterministic(t *testing.T) {
	client, queue := setup(t)
	llm := &fakeLLM{}
	consumer := jobs.NewConsumer(log.NewNop(), client, llm)
	ctx := context.Background()

	job := pipeline.GenerationJob{
		OrgID:        "org-1",
		Query:        "runway?",
		Calculations: map[string]float64{"runway": 12, "burn_rate": 50000, "cash": 600000},
	}

	var prompts []string
	for i := 0; i < 2; i++ {
		jobID, err := queue.EnqueueGeneration(ctx, job)
		require.NoError(t, err)
		require.NoError(t, consumer.ProcessOne(ctx, jobID))
		prompts = append(prompts, llm.lastPrompt)
	}
	assert.Equal(t, prompts[0], prompts[1])

	// figures appear sorted by key
	burn := strings.Index(llm.lastPrompt, "burn_rate")
	cash := strings.Index(llm.lastPrompt, "cash")
	runway := strings.Index(llm.lastPrompt, "- runway")
	assert.True(t, burn < cash && cash < runway)
}
