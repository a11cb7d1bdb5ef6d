package http

import (
	"github.com/gin-gonic/gin"

	"financial-query-pipeline/internal/plan"
	"financial-query-pipeline/pkg/log"
)

// Handler is the public interface for the plan HTTP delivery layer.
type Handler interface {
	Generate(c *gin.Context)
	Query(c *gin.Context)
	List(c *gin.Context)
	Detail(c *gin.Context)
}

type handler struct {
	l  log.Logger
	uc plan.UseCase
}

// New creates a new HTTP handler for the plan domain.
func New(l log.Logger, uc plan.UseCase) *handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
