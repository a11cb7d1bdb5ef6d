package classifier

import (
	"financial-query-pipeline/internal/intent"
	"financial-query-pipeline/pkg/llmprovider"
	pkgLog "financial-query-pipeline/pkg/log"
)

type implClassifier struct {
	l   pkgLog.Logger
	llm llmprovider.Caller
}

var _ intent.Classifier = (*implClassifier)(nil)

// New creates a classifier. llm may be nil, in which case every query
// takes the deterministic pattern path.
func New(l pkgLog.Logger, llm llmprovider.Caller) *implClassifier {
	return &implClassifier{
		l:   l,
		llm: llm,
	}
}
