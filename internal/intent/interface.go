package intent

import "context"

// Classifier maps raw query text to a Classification.
type Classifier interface {
	// Classify returns the intent, confidence, and extracted slots for text.
	// The AI path degrades silently to the pattern fallback; the only error
	// surfaced to callers is ErrEmptyQuery.
	Classify(ctx context.Context, text string) (Classification, error)

	// Validate checks a classification against the taxonomy and confidence bounds.
	Validate(c Classification) ValidationResult
}
