package retriever

import (
	"financial-query-pipeline/internal/grounding"
	"financial-query-pipeline/pkg/cache"
	pkgLog "financial-query-pipeline/pkg/log"
)

type implRetriever struct {
	l     pkgLog.Logger
	store grounding.Store
	cache cache.Cache
	now   func() int // current calendar year, injectable for tests
}

var _ grounding.Retriever = (*implRetriever)(nil)

// New builds the grounding retriever. c may be nil, in which case every
// retrieval issues fresh probes.
func New(l pkgLog.Logger, store grounding.Store, c cache.Cache) grounding.Retriever {
	return &implRetriever{
		l:     l,
		store: store,
		cache: c,
		now:   currentYear,
	}
}
