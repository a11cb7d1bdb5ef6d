package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial-query-pipeline/pkg/gemini"
)

func TestGenerate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"candidates": [{"content": {"parts": [{"text": "{\"intent\":\"runway_calculation\"}"}]}}],
			"usageMetadata": {"promptTokenCount": 12, "candidatesTokenCount": 8, "totalTokenCount": 20}
		}`))
	}))
	defer ts.Close()

	client, err := gemini.New(gemini.Config{APIKey: "test-key", APIURL: ts.URL})
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), &gemini.Request{
		Prompt:      "What is our runway?",
		Temperature: 0.2,
		MaxTokens:   512,
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "runway_calculation")
	assert.Equal(t, 20, resp.Usage.TotalTokens)
}

func TestGenerateAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "quota exceeded"}}`))
	}))
	defer ts.Close()

	client, err := gemini.New(gemini.Config{APIKey: "test-key", APIURL: ts.URL})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), &gemini.Request{Prompt: "hello"})
	require.Error(t, err)

	var apiErr *gemini.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}

func TestGenerateEmptyCandidates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer ts.Close()

	client, err := gemini.New(gemini.Config{APIKey: "test-key", APIURL: ts.URL})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), &gemini.Request{Prompt: "hello"})
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	_, err := gemini.New(gemini.Config{})
	assert.Error(t, err)
}
