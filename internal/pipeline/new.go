package pipeline

import (
	"time"

	"financial-query-pipeline/internal/assembler"
	"financial-query-pipeline/internal/cfobrain"
	"financial-query-pipeline/internal/grounding"
	"financial-query-pipeline/internal/intent"
	"financial-query-pipeline/internal/planner"
	pkgLog "financial-query-pipeline/pkg/log"
)

// Deps wires the controller. Probes and Async are optional; absent
// collaborators simply skip their stages.
type Deps struct {
	Classifier intent.Classifier
	Retriever  grounding.Retriever
	Planner    planner.UseCase
	Assembler  assembler.Assembler
	Reasoner   cfobrain.Reasoner
	Probes     DataProbes
	Async      AsyncWorker

	ModelVersion string
	PollInterval time.Duration
	PollAttempts int
}

type implController struct {
	l            pkgLog.Logger
	classifier   intent.Classifier
	retriever    grounding.Retriever
	planner      planner.UseCase
	assembler    assembler.Assembler
	reasoner     cfobrain.Reasoner
	probes       DataProbes
	async        AsyncWorker
	modelVersion string
	pollInterval time.Duration
	pollAttempts int
}

var _ Controller = (*implController)(nil)

func New(l pkgLog.Logger, deps Deps) Controller {
	c := &implController{
		l:            l,
		classifier:   deps.Classifier,
		retriever:    deps.Retriever,
		planner:      deps.Planner,
		assembler:    deps.Assembler,
		reasoner:     deps.Reasoner,
		probes:       deps.Probes,
		async:        deps.Async,
		modelVersion: deps.ModelVersion,
		pollInterval: deps.PollInterval,
		pollAttempts: deps.PollAttempts,
	}
	if c.pollInterval <= 0 {
		c.pollInterval = defaultPollInterval
	}
	if c.pollAttempts <= 0 {
		c.pollAttempts = defaultPollAttempts
	}
	return c
}
