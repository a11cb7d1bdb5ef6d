package assembler

import "context"

// Assembler merges pipeline stage outputs into the external response.
type Assembler interface {
	Assemble(ctx context.Context, input Input) StructuredResponse
	Validate(resp StructuredResponse) ValidationResult
}
