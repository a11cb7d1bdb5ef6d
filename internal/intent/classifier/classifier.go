package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"financial-query-pipeline/internal/intent"
	"financial-query-pipeline/pkg/llmprovider"
)

// Classify maps raw text to a Classification. The AI path is attempted
// first when a provider is wired; any failure there degrades silently to
// the pattern fallback. Only empty input is an error.
func (c *implClassifier) Classify(ctx context.Context, text string) (intent.Classification, error) {
	if strings.TrimSpace(text) == "" {
		return intent.Classification{}, intent.ErrEmptyQuery
	}

	if c.llm != nil {
		result, err := c.classifyLLM(ctx, text)
		if err == nil {
			return result, nil
		}
		c.l.Warnf(ctx, "intent: AI classification failed, using pattern fallback: %v", err)
	}

	return classifyFallback(text), nil
}

// llmClassification is the JSON shape the AI path must return.
type llmClassification struct {
	Intent     string                 `json:"intent"`
	Confidence float64                `json:"confidence"`
	Slots      map[string]intent.Slot `json:"slots"`
}

func (c *implClassifier) classifyLLM(ctx context.Context, text string) (intent.Classification, error) {
	prompt := fmt.Sprintf("Allowed intents: %s\n\nQuestion: %q", intentList(), text)

	resp, err := c.llm.Call(ctx, &llmprovider.Request{
		Prompt:       prompt,
		SystemPrompt: classifySystemPrompt,
		Temperature:  classifyTemperature,
		MaxTokens:    classifyMaxTokens,
	})
	if err != nil {
		return intent.Classification{}, err
	}

	var parsed llmClassification
	if err := json.Unmarshal([]byte(stripJSONFence(resp.Content)), &parsed); err != nil {
		return intent.Classification{}, fmt.Errorf("malformed classification JSON: %w", err)
	}

	parsedIntent := intent.Intent(parsed.Intent)
	if !parsedIntent.Valid() {
		return intent.Classification{}, fmt.Errorf("intent %q not in taxonomy", parsed.Intent)
	}

	confidence := parsed.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	slots := parsed.Slots
	if slots == nil {
		slots = map[string]intent.Slot{}
	}

	return intent.Classification{
		Intent:        parsedIntent,
		Confidence:    confidence,
		Slots:         slots,
		UsedFallback:  false,
		ModelUsed:     resp.ModelName,
		OriginalInput: text,
	}, nil
}

func intentList() string {
	names := make([]string, len(intent.All))
	for i, v := range intent.All {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}

// stripJSONFence removes a markdown code fence when the model wraps its
// JSON despite instructions.
func stripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
