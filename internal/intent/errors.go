package intent

import "errors"

// Domain-specific errors for the intent package.
var (
	ErrEmptyQuery = errors.New("query text is empty")
)
