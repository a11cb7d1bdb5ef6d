package model

// Scope identifies the acting organization and user for a request.
// It is extracted by middleware and threaded through every use case.
type Scope struct {
	OrgID  string
	UserID string
	Role   string
}
