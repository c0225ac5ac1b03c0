package steps_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cassiomorais/reconciler/pkg/steps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_AllStepsSucceed(t *testing.T) {
	var executed []string

	r := steps.New("test").
		AddStep(steps.Step{Name: "step1", Execute: func(ctx context.Context) error { executed = append(executed, "exec1"); return nil }}).
		AddStep(steps.Step{Name: "step2", Execute: func(ctx context.Context) error { executed = append(executed, "exec2"); return nil }}).
		AddStep(steps.Step{Name: "step3", Execute: func(ctx context.Context) error { executed = append(executed, "exec3"); return nil }})

	outcomes, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"exec1", "exec2", "exec3"}, executed)
	assert.Len(t, outcomes, 3)
	for _, o := range outcomes {
		assert.Equal(t, steps.ResultOK, o.Result)
	}
}

func TestRunner_FailureDoesNotStopLaterSteps(t *testing.T) {
	var executed []string
	var failed []string

	r := steps.New("test").
		AddStep(steps.Step{Name: "step1", Execute: func(ctx context.Context) error { executed = append(executed, "exec1"); return nil }}).
		AddStep(steps.Step{Name: "step2", Execute: func(ctx context.Context) error { return errors.New("step2 failed") }}).
		AddStep(steps.Step{Name: "step3", Execute: func(ctx context.Context) error { executed = append(executed, "exec3"); return nil }}).
		OnFailure(func(name string, err error) { failed = append(failed, name) })

	outcomes, err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `step "step2"`)
	assert.Equal(t, []string{"exec1", "exec3"}, executed)
	assert.Equal(t, []string{"step2"}, failed)
	assert.Equal(t, steps.ResultFailed, outcomes[1].Result)
	assert.EqualError(t, outcomes[1].Err, "step2 failed")
	assert.Equal(t, steps.ResultOK, outcomes[2].Result)
}

func TestRunner_MultipleFailuresJoined(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")

	r := steps.New("test").
		AddStep(steps.Step{Name: "a", Execute: func(ctx context.Context) error { return errA }}).
		AddStep(steps.Step{Name: "b", Execute: func(ctx context.Context) error { return errB }})

	_, err := r.Run(context.Background())
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestRunner_SkippedStep(t *testing.T) {
	r := steps.New("test").
		AddStep(steps.Step{Name: "skip", Execute: func(ctx context.Context) error {
			return fmt.Errorf("no tenant: %w", steps.ErrSkip)
		}})

	outcomes, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, steps.ResultSkipped, outcomes[0].Result)
	assert.Equal(t, map[string]string{"skip": "skipped"}, steps.Summary(outcomes))
}

func TestRunner_Empty(t *testing.T) {
	r := steps.New("empty")
	outcomes, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, outcomes)
	assert.Equal(t, 0, r.Len())
}
