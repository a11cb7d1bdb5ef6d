package planner

import "errors"

var (
	ErrApprovalRequired = errors.New("action requires approval before execution")
	ErrMissingOrg       = errors.New("organization id is required")
)
