package steps

import (
	"context"
	"errors"
	"fmt"
)

// Result is the outcome of a single step.
type Result string

const (
	ResultOK      Result = "ok"
	ResultFailed  Result = "failed"
	ResultSkipped Result = "skipped"
)

// ErrSkip may be returned by a step that chose not to run because an
// earlier step did not produce what it needs.
var ErrSkip = errors.New("step skipped")

// Step is a named unit of work.
type Step struct {
	Name    string
	Execute func(ctx context.Context) error
}

// Outcome records what happened to one step.
type Outcome struct {
	Name   string
	Result Result
	Err    error
}

// Runner executes steps in order without stopping on failure. There is no
// compensation: a failed step leaves the effects of earlier steps in place.
type Runner struct {
	name      string
	steps     []Step
	onFailure func(name string, err error)
}

// New creates a runner with the given name.
func New(name string) *Runner {
	return &Runner{name: name}
}

// AddStep appends a step.
func (r *Runner) AddStep(step Step) *Runner {
	r.steps = append(r.steps, step)
	return r
}

// OnFailure registers a callback invoked for every failed step.
func (r *Runner) OnFailure(fn func(name string, err error)) *Runner {
	r.onFailure = fn
	return r
}

// Len returns the number of registered steps.
func (r *Runner) Len() int { return len(r.steps) }

// Run executes every step and returns one outcome per step together with
// the joined errors of the failed ones.
func (r *Runner) Run(ctx context.Context) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(r.steps))
	var errs []error

	for _, step := range r.steps {
		err := step.Execute(ctx)
		switch {
		case err == nil:
			outcomes = append(outcomes, Outcome{Name: step.Name, Result: ResultOK})
		case errors.Is(err, ErrSkip):
			outcomes = append(outcomes, Outcome{Name: step.Name, Result: ResultSkipped})
		default:
			outcomes = append(outcomes, Outcome{Name: step.Name, Result: ResultFailed, Err: err})
			errs = append(errs, fmt.Errorf("%s: step %q: %w", r.name, step.Name, err))
			if r.onFailure != nil {
				r.onFailure(step.Name, err)
			}
		}
	}

	return outcomes, errors.Join(errs...)
}

// Summary converts outcomes into a name -> result map.
func Summary(outcomes []Outcome) map[string]string {
	out := make(map[string]string, len(outcomes))
	for _, o := range outcomes {
		out[o.Name] = string(o.Result)
	}
	return out
}
