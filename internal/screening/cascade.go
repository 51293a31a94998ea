package screening

import (
	"context"
	"time"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
	"github.com/wtopps/quantitative-stock-selection/internal/strategy"
	"github.com/wtopps/quantitative-stock-selection/pkg/logger"
)

// Env carries the shared inputs a cascade run needs. History holds the
// daily bars fetched for the survivors of the quote-level stages; Flow
// may be nil when the capital-flow feed is down, in which case
// flow-dependent stages pass everything through.
type Env struct {
	Strategy *strategy.Config
	History  map[string]contracts.BarSeries
	Flow     *contracts.FlowTable
	IndexPct float64
}

// Stage is one funnel step. Apply returns the surviving candidates;
// a stage never mutates the candidates it drops.
type Stage interface {
	Name() string
	Apply(ctx context.Context, in contracts.CandidateSet, env *Env) (contracts.CandidateSet, error)
}

// Runner executes stages in order, logging the in/out count of each.
// An empty survivor set short-circuits the rest of the funnel; that is
// a valid outcome, not an error.
type Runner struct {
	stages []Stage
	logger *logger.Logger
}

// NewRunner builds a runner over the given stages.
func NewRunner(log *logger.Logger, stages ...Stage) *Runner {
	return &Runner{stages: stages, logger: log}
}

// Run pushes the candidate set through every stage.
func (r *Runner) Run(ctx context.Context, in contracts.CandidateSet, env *Env) (contracts.CandidateSet, error) {
	current := in

	for _, stage := range r.stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		out, err := stage.Apply(ctx, current, env)
		if err != nil {
			return nil, err
		}

		r.logger.WithFields(map[string]interface{}{
			"stage":       stage.Name(),
			"in":          len(current),
			"out":         len(out),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("Cascade stage complete")

		current = out
		if len(current) == 0 {
			r.logger.WithField("stage", stage.Name()).Info("Cascade emptied, stopping early")
			return current, nil
		}
	}

	return current, nil
}

// filterStage adapts a per-candidate predicate into a Stage.
type filterStage struct {
	name string
	keep func(c *contracts.Candidate, env *Env) bool
}

func (s *filterStage) Name() string { return s.name }

func (s *filterStage) Apply(_ context.Context, in contracts.CandidateSet, env *Env) (contracts.CandidateSet, error) {
	out := make(contracts.CandidateSet, 0, len(in))
	for _, c := range in {
		if s.keep(c, env) {
			out = append(out, c)
		}
	}
	return out, nil
}
