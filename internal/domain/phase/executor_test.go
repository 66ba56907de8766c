package phase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/macsetup/internal/adapters/logging"
	"github.com/felixgeelhaar/macsetup/internal/domain/step"
	"github.com/felixgeelhaar/macsetup/internal/ports"
)

// recordingUnit builds a unit that appends its id to order when applied.
func recordingUnit(id string, order *[]string, applyErr error) *step.Unit {
	return step.NewUnit(step.MustNewID(id), id, func(context.Context) error {
		*order = append(*order, id)
		return applyErr
	})
}

func satisfiedUnit(id string, order *[]string) *step.Unit {
	return step.NewUnit(step.MustNewID(id), id,
		func(context.Context) error {
			*order = append(*order, id)
			return nil
		},
		step.WithCheck(func(context.Context) (step.Status, error) {
			return step.StatusSatisfied, nil
		}),
	)
}

func TestExecutor_RunsInRegistryOrder(t *testing.T) {
	var order []string
	reg, err := NewRegistry(
		New(1, "Core", []*step.Unit{recordingUnit("core:a", &order, nil)}, Required()),
		New(2, "Packages", []*step.Unit{recordingUnit("pkg:b", &order, nil)}),
		New(3, "Shell", []*step.Unit{recordingUnit("shell:c", &order, nil)}),
	)
	require.NoError(t, err)

	exec := NewExecutor(logging.NewNopLogger())
	result, err := exec.Execute(context.Background(), reg, SelectAll(reg))
	require.NoError(t, err)

	assert.Equal(t, []string{"core:a", "pkg:b", "shell:c"}, order)
	assert.Equal(t, 3, result.Succeeded())
	assert.Equal(t, 0, result.Failed())
}

func TestExecutor_OptionalFailureDoesNotBlockSiblingPhases(t *testing.T) {
	var order []string
	reg, err := NewRegistry(
		New(1, "Core", []*step.Unit{recordingUnit("core:a", &order, nil)}, Required()),
		New(2, "Packages", []*step.Unit{recordingUnit("pkg:b", &order, errors.New("install failed"))}),
		New(3, "Shell", []*step.Unit{recordingUnit("shell:c", &order, nil)}),
	)
	require.NoError(t, err)

	exec := NewExecutor(logging.NewNopLogger())
	result, err := exec.Execute(context.Background(), reg, SelectAll(reg))
	require.NoError(t, err, "optional failures never abort the run")

	assert.Equal(t, []string{"core:a", "pkg:b", "shell:c"}, order)
	assert.Equal(t, PhaseFailed, result.ByID(2).Status)
	assert.Equal(t, PhaseSuccess, result.ByID(3).Status)
	assert.Equal(t, 1, result.Failed())
}

func TestExecutor_UnitFailureDoesNotBlockSiblingUnits(t *testing.T) {
	var order []string
	reg, err := NewRegistry(
		New(1, "Core", nil, Required()),
		New(2, "Packages", []*step.Unit{
			recordingUnit("pkg:a", &order, errors.New("boom")),
			recordingUnit("pkg:b", &order, nil),
			recordingUnit("pkg:c", &order, nil),
		}),
	)
	require.NoError(t, err)

	exec := NewExecutor(logging.NewNopLogger())
	result, err := exec.Execute(context.Background(), reg, SelectAll(reg))
	require.NoError(t, err)

	assert.Equal(t, []string{"pkg:a", "pkg:b", "pkg:c"}, order)
	assert.Len(t, result.ByID(2).FailedUnits(), 1)
}

func TestExecutor_RequiredFailureAbortsRun(t *testing.T) {
	var order []string
	reg, err := NewRegistry(
		New(1, "Core", []*step.Unit{recordingUnit("core:a", &order, errors.New("xcode install failed"))}, Required()),
		New(2, "Packages", []*step.Unit{recordingUnit("pkg:b", &order, nil)}),
	)
	require.NoError(t, err)

	exec := NewExecutor(logging.NewNopLogger())
	result, err := exec.Execute(context.Background(), reg, SelectAll(reg))

	require.ErrorIs(t, err, ErrRequiredPhase)
	assert.Equal(t, []string{"core:a"}, order, "no optional phase may run after the abort")
	assert.Equal(t, PhaseFailed, result.ByID(1).Status)
	assert.Nil(t, result.ByID(2), "aborted phases produce no result")
}

func TestExecutor_RequiredFailFastWithinPhase(t *testing.T) {
	var order []string
	reg, err := NewRegistry(
		New(1, "Core", []*step.Unit{
			recordingUnit("core:a", &order, errors.New("boom")),
			recordingUnit("core:b", &order, nil),
		}, Required()),
	)
	require.NoError(t, err)

	exec := NewExecutor(logging.NewNopLogger())
	_, err = exec.Execute(context.Background(), reg, SelectAll(reg))

	require.ErrorIs(t, err, ErrRequiredPhase)
	assert.Equal(t, []string{"core:a"}, order, "required phase stops at first failure")
}

func TestExecutor_UnselectedPhaseSkippedEntirely(t *testing.T) {
	var order []string
	checkCalls := 0
	unit := step.NewUnit(step.MustNewID("pkg:a"), "a",
		func(context.Context) error {
			order = append(order, "pkg:a")
			return nil
		},
		step.WithCheck(func(context.Context) (step.Status, error) {
			checkCalls++
			return step.StatusNeedsApply, nil
		}),
	)

	reg, err := NewRegistry(
		New(1, "Core", nil, Required()),
		New(2, "Packages", []*step.Unit{unit}),
	)
	require.NoError(t, err)

	sel := SelectAll(reg)
	sel.Toggle(reg, 2)

	exec := NewExecutor(logging.NewNopLogger())
	result, err := exec.Execute(context.Background(), reg, sel)
	require.NoError(t, err)

	assert.Empty(t, order, "no action invoked for unselected phase")
	assert.Zero(t, checkCalls, "no idempotency check run for unselected phase")
	assert.Equal(t, PhaseSkipped, result.ByID(2).Status)
}

func TestExecutor_SatisfiedUnitSkipsAction(t *testing.T) {
	var order []string
	reg, err := NewRegistry(
		New(1, "Core", nil, Required()),
		New(2, "Packages", []*step.Unit{satisfiedUnit("pkg:a", &order)}),
	)
	require.NoError(t, err)

	exec := NewExecutor(logging.NewNopLogger())
	result, err := exec.Execute(context.Background(), reg, SelectAll(reg))
	require.NoError(t, err)

	assert.Empty(t, order, "satisfied unit must not re-invoke its action")
	assert.Equal(t, step.StatusSkipped, result.ByID(2).Units[0].Status())
}

func TestExecutor_UnconditionalUnitAlwaysRuns(t *testing.T) {
	var order []string
	reg, err := NewRegistry(
		New(1, "Core", nil, Required()),
		New(2, "Shell", []*step.Unit{recordingUnit("shell:zshrc", &order, nil)}),
	)
	require.NoError(t, err)

	exec := NewExecutor(logging.NewNopLogger())

	for i := 0; i < 2; i++ {
		_, err := exec.Execute(context.Background(), reg, SelectAll(reg))
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"shell:zshrc", "shell:zshrc"}, order)
}

func TestExecutor_CheckErrorStillApplies(t *testing.T) {
	var applied bool
	unit := step.NewUnit(step.MustNewID("pkg:a"), "a",
		func(context.Context) error {
			applied = true
			return nil
		},
		step.WithCheck(func(context.Context) (step.Status, error) {
			return step.StatusUnknown, errors.New("probe broke")
		}),
	)

	reg, err := NewRegistry(
		New(1, "Core", nil, Required()),
		New(2, "Packages", []*step.Unit{unit}),
	)
	require.NoError(t, err)

	exec := NewExecutor(logging.NewNopLogger())
	_, err = exec.Execute(context.Background(), reg, SelectAll(reg))
	require.NoError(t, err)
	assert.True(t, applied)
}

func TestExecutor_PanicIsolated(t *testing.T) {
	var order []string
	panicking := step.NewUnit(step.MustNewID("pkg:bad"), "bad", func(context.Context) error {
		panic("unexpected")
	})

	reg, err := NewRegistry(
		New(1, "Core", nil, Required()),
		New(2, "Packages", []*step.Unit{panicking, recordingUnit("pkg:b", &order, nil)}),
		New(3, "Shell", []*step.Unit{recordingUnit("shell:c", &order, nil)}),
	)
	require.NoError(t, err)

	exec := NewExecutor(logging.NewNopLogger())
	result, err := exec.Execute(context.Background(), reg, SelectAll(reg))
	require.NoError(t, err)

	assert.Equal(t, []string{"pkg:b", "shell:c"}, order)
	assert.Equal(t, PhaseFailed, result.ByID(2).Status)
}

// passGate counts waits and always allows another attempt.
type passGate struct{ waits int }

func (g *passGate) Wait(context.Context) error {
	g.waits++
	return nil
}

// refusingGate simulates the operator declining to keep waiting.
type refusingGate struct{ waits int }

func (g *refusingGate) Wait(context.Context) error {
	g.waits++
	return errors.New("operator gave up")
}

// flakyUnit fails a fixed number of attempts before succeeding.
func flakyUnit(id string, failures int, calls *int, opts ...step.Option) *step.Unit {
	return step.NewUnit(step.MustNewID(id), id, func(context.Context) error {
		*calls++
		if *calls <= failures {
			return errors.New("network down")
		}
		return nil
	}, opts...)
}

func TestExecutor_RetryableUnitRetriedThroughGate(t *testing.T) {
	calls := 0
	gate := &passGate{}
	reg, err := NewRegistry(
		New(1, "Core", []*step.Unit{flakyUnit("core:homebrew", 2, &calls, step.Retryable())}, Required()),
	)
	require.NoError(t, err)

	exec := NewExecutor(logging.NewNopLogger(), WithRetry(gate, 3))
	result, err := exec.Execute(context.Background(), reg, SelectAll(reg))
	require.NoError(t, err)

	assert.Equal(t, 3, calls, "action retried until it succeeded")
	assert.Equal(t, 2, gate.waits, "gate consulted between attempts")
	assert.Equal(t, PhaseSuccess, result.ByID(1).Status)
}

func TestExecutor_NonRetryableUnitGetsOneAttempt(t *testing.T) {
	calls := 0
	gate := &passGate{}
	reg, err := NewRegistry(
		New(1, "Core", []*step.Unit{recordingUnit("core:a", &[]string{}, nil)}, Required()),
		New(2, "Shell", []*step.Unit{flakyUnit("shell:zshrc", 10, &calls)}),
	)
	require.NoError(t, err)

	exec := NewExecutor(logging.NewNopLogger(), WithRetry(gate, 3))
	result, err := exec.Execute(context.Background(), reg, SelectAll(reg))
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, gate.waits)
	assert.Equal(t, PhaseFailed, result.ByID(2).Status)
}

func TestExecutor_RetryBudgetExhausted(t *testing.T) {
	calls := 0
	gate := &passGate{}
	reg, err := NewRegistry(
		New(1, "Core", []*step.Unit{recordingUnit("core:a", &[]string{}, nil)}, Required()),
		New(2, "Packages", []*step.Unit{flakyUnit("brew:formula:git", 10, &calls, step.Retryable())}),
	)
	require.NoError(t, err)

	exec := NewExecutor(logging.NewNopLogger(), WithRetry(gate, 3))
	result, err := exec.Execute(context.Background(), reg, SelectAll(reg))
	require.NoError(t, err)

	assert.Equal(t, 3, calls)
	assert.Equal(t, PhaseFailed, result.ByID(2).Status)
}

func TestExecutor_GateRefusalStopsRetrying(t *testing.T) {
	calls := 0
	gate := &refusingGate{}
	reg, err := NewRegistry(
		New(1, "Core", []*step.Unit{flakyUnit("core:homebrew", 10, &calls, step.Retryable())}, Required()),
	)
	require.NoError(t, err)

	exec := NewExecutor(logging.NewNopLogger(), WithRetry(gate, 5))
	_, err = exec.Execute(context.Background(), reg, SelectAll(reg))

	require.ErrorIs(t, err, ErrRequiredPhase)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, gate.waits)
}

func TestExecutor_NoGateMeansSingleAttempt(t *testing.T) {
	calls := 0
	reg, err := NewRegistry(
		New(1, "Core", []*step.Unit{flakyUnit("core:homebrew", 10, &calls, step.Retryable())}, Required()),
	)
	require.NoError(t, err)

	exec := NewExecutor(logging.NewNopLogger())
	_, err = exec.Execute(context.Background(), reg, SelectAll(reg))

	require.ErrorIs(t, err, ErrRequiredPhase)
	assert.Equal(t, 1, calls)
}

func TestExecutor_AbortPreservesCommandExitStatus(t *testing.T) {
	cmdErr := ports.NewCommandError("xcode-select --install", ports.CommandResult{ExitCode: 72, Stderr: "no network"})
	unit := step.NewUnit(step.MustNewID("core:xcode-clt"), "CLT", func(context.Context) error {
		return cmdErr
	})
	reg, err := NewRegistry(New(1, "Core", []*step.Unit{unit}, Required()))
	require.NoError(t, err)

	exec := NewExecutor(logging.NewNopLogger())
	_, err = exec.Execute(context.Background(), reg, SelectAll(reg))

	require.ErrorIs(t, err, ErrRequiredPhase)
	var got *ports.CommandError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 72, got.Code)
}
