package grounding

import "errors"

var (
	ErrMissingOrg = errors.New("organization id is required")
)
