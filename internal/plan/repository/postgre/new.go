package postgre

import (
	"database/sql"
	"fmt"

	"financial-query-pipeline/internal/plan/repository"
	"financial-query-pipeline/pkg/log"
)

type implRepository struct {
	db *sql.DB
	l  log.Logger
}

// New creates the PostgreSQL-backed Repository for the plan domain and
// the pipeline's read surfaces.
func New(db *sql.DB, l log.Logger) repository.Repository {
	if db == nil {
		panic("plan/repository/postgre: db is required")
	}
	return &implRepository{db: db, l: l}
}

// dsn returns a method-scoped context string for logging.
func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("plan/repository/postgre.%s", method)
}
