package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/inventoryaudit/internal/model"
)

// Step is one stage of a flow.
type Step interface {
	// Do executes the step against the flow state. Non-critical problems
	// are recorded in run and nil is returned; an error stops the flow.
	Do(ctx context.Context, run *model.Run) error

	// Name returns the step name used in logs and the run summary.
	Name() string
}

// Pipeline executes steps in order.
type Pipeline struct {
	steps           []Step
	logger          *slog.Logger
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps executing after a step returns an error.
// The first error is still recorded in the run.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{steps: make([]Step, 0)}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends several steps.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs the steps in order, checking for cancellation before each.
// Completed steps are appended to run.PerformedSteps.
func (p *Pipeline) Execute(ctx context.Context, run *model.Run) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("flow cancelled",
				"flow", run.Flow,
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			run.Cancelled = true
			if run.Error == nil {
				run.Error = ctx.Err()
			}
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step", "flow", run.Flow, "step", step.Name())

		if err := step.Do(ctx, run); err != nil {
			p.logger.Error("step failed",
				"flow", run.Flow,
				"step", step.Name(),
				"error", err,
			)
			if run.Error == nil {
				run.Error = err
			}
			if !p.continueOnError {
				return err
			}
			continue
		}

		p.logger.Debug("step completed", "flow", run.Flow, "step", step.Name())
		run.PerformedSteps = append(run.PerformedSteps, step.Name())
	}
	return nil
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
