package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/inventoryaudit/internal/model"
)

// Flow is a named pipeline.
type Flow struct {
	Name     string
	Pipeline *Pipeline
}

// Runner executes flows with bounded concurrency.
type Runner struct {
	concurrency int
	logger      *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets the logger.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithConcurrency sets how many flows may run at once. Values below one
// are ignored.
func WithConcurrency(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// NewRunner creates a Runner that runs one flow at a time.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{concurrency: 1}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Run executes every flow and returns their states in input order.
//
// A failing flow does not stop the others. The returned error joins the
// errors of failed flows, each prefixed with the flow name.
func (r *Runner) Run(ctx context.Context, flows []Flow) ([]*model.Run, error) {
	r.logger.Info("starting flows", "total", len(flows), "concurrency", r.concurrency)
	start := time.Now()

	runs := make([]*model.Run, len(flows))
	for i, f := range flows {
		runs[i] = model.NewRun(f.Name)
	}

	var g errgroup.Group
	g.SetLimit(r.concurrency)

	for i, f := range flows {
		g.Go(func() error {
			run := runs[i]
			run.StartedAt = time.Now()
			if err := f.Pipeline.Execute(ctx, run); err != nil {
				r.logger.Warn("flow failed", "flow", f.Name, "error", err)
				return nil
			}
			r.logger.Info("flow completed", "flow", f.Name, "steps", len(run.PerformedSteps))
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // flow errors are recorded in each run

	r.logger.Info("flows finished", "elapsed", time.Since(start))

	var errs []error
	for _, run := range runs {
		if run.Error != nil {
			errs = append(errs, fmt.Errorf("%s: %w", run.Flow, run.Error))
		}
	}
	return runs, errors.Join(errs...)
}
