package plan

import "errors"

var (
	ErrNotFound    = errors.New("plan not found")
	ErrInvalidGoal = errors.New("goal is required")
	ErrForbidden   = errors.New("plan belongs to another organization")
)
