package llmprovider

import (
	"context"
	"errors"
	"net/http"

	"financial-query-pipeline/pkg/deepseek"
	"financial-query-pipeline/pkg/gemini"
)

// Caller is the narrow generation contract consumed by pipeline stages.
// *Manager satisfies it; tests substitute counting stubs.
type Caller interface {
	Call(ctx context.Context, req *Request) (*Response, error)
}

// GeminiAdapter adapts pkg/gemini to the llmprovider.Provider interface
type GeminiAdapter struct {
	client gemini.IGemini
}

// NewGeminiAdapter creates a new Gemini adapter
func NewGeminiAdapter(client gemini.IGemini) *GeminiAdapter {
	return &GeminiAdapter{client: client}
}

// Call implements the Provider interface
func (a *GeminiAdapter) Call(ctx context.Context, req *Request) (*Response, error) {
	resp, err := a.client.Generate(ctx, &gemini.Request{
		Prompt:       req.Prompt,
		SystemPrompt: req.SystemPrompt,
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
	})
	if err != nil {
		var apiErr *gemini.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			return nil, &ProviderError{Provider: a.Name(), Err: ErrProviderRateLimited}
		}
		return nil, &ProviderError{Provider: a.Name(), Err: err}
	}

	return &Response{
		Content:      resp.Content,
		ProviderName: a.Name(),
		ModelName:    a.client.Model(),
		Usage: &Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

// Name returns the provider name
func (a *GeminiAdapter) Name() string { return "gemini" }

// Model returns the model being used
func (a *GeminiAdapter) Model() string { return a.client.Model() }

// DeepSeekAdapter adapts pkg/deepseek to the llmprovider.Provider interface
type DeepSeekAdapter struct {
	client deepseek.IDeepSeek
}

// NewDeepSeekAdapter creates a new DeepSeek adapter
func NewDeepSeekAdapter(client deepseek.IDeepSeek) *DeepSeekAdapter {
	return &DeepSeekAdapter{client: client}
}

// Call implements the Provider interface
func (a *DeepSeekAdapter) Call(ctx context.Context, req *Request) (*Response, error) {
	resp, err := a.client.Generate(ctx, &deepseek.Request{
		Prompt:       req.Prompt,
		SystemPrompt: req.SystemPrompt,
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
	})
	if err != nil {
		var apiErr *deepseek.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			return nil, &ProviderError{Provider: a.Name(), Err: ErrProviderRateLimited}
		}
		return nil, &ProviderError{Provider: a.Name(), Err: err}
	}

	return &Response{
		Content:      resp.Content,
		ProviderName: a.Name(),
		ModelName:    a.client.Model(),
		Usage: &Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

// Name returns the provider name
func (a *DeepSeekAdapter) Name() string { return "deepseek" }

// Model returns the model being used
func (a *DeepSeekAdapter) Model() string { return a.client.Model() }
