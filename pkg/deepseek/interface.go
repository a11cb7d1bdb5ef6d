package deepseek

import "context"

// IDeepSeek defines the interface for the DeepSeek LLM client
type IDeepSeek interface {
	// Generate sends a single-turn chat completion request
	Generate(ctx context.Context, req *Request) (*Response, error)

	// Model returns the model being used
	Model() string
}
