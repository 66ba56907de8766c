package phase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/macsetup/internal/domain/step"
	"github.com/felixgeelhaar/macsetup/internal/ports"
)

// ErrRequiredPhase wraps a failure of the required phase's action.
// It is the only error that aborts the run.
var ErrRequiredPhase = errors.New("required phase failed")

// PhaseStatus is the aggregate outcome of one phase.
type PhaseStatus string

const (
	// PhaseSuccess means every unit ended satisfied or skipped.
	PhaseSuccess PhaseStatus = "success"
	// PhaseFailed means at least one unit failed.
	PhaseFailed PhaseStatus = "failed"
	// PhaseSkipped means the phase was not selected; no unit ran.
	PhaseSkipped PhaseStatus = "skipped"
)

// PhaseResult is the recorded outcome of one phase.
type PhaseResult struct {
	ID     int
	Label  string
	Status PhaseStatus
	Units  []step.Result
}

// FailedUnits returns the unit results that failed.
func (r PhaseResult) FailedUnits() []step.Result {
	var failed []step.Result
	for _, u := range r.Units {
		if u.Status() == step.StatusFailed {
			failed = append(failed, u)
		}
	}
	return failed
}

// RunResult accumulates per-phase outcomes for the whole run.
type RunResult struct {
	Phases []PhaseResult
}

// Failed returns how many executed phases failed.
func (r *RunResult) Failed() int {
	n := 0
	for _, p := range r.Phases {
		if p.Status == PhaseFailed {
			n++
		}
	}
	return n
}

// Succeeded returns how many executed phases succeeded.
func (r *RunResult) Succeeded() int {
	n := 0
	for _, p := range r.Phases {
		if p.Status == PhaseSuccess {
			n++
		}
	}
	return n
}

// ByID returns the result for a phase id, or nil.
func (r *RunResult) ByID(id int) *PhaseResult {
	for i := range r.Phases {
		if r.Phases[i].ID == id {
			return &r.Phases[i]
		}
	}
	return nil
}

// ReadinessGate blocks until the environment is ready for another
// attempt at a retryable unit. The network-wait state machine
// implements it.
type ReadinessGate interface {
	Wait(ctx context.Context) error
}

// Executor runs selected phases strictly in registry order. The
// required phase is fail-fast: its failure aborts the run. Every other
// phase runs under a failure-isolating wrapper, and each of its units
// is isolated from its siblings too.
type Executor struct {
	logger   ports.Logger
	gate     ReadinessGate
	attempts int
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithRetry re-runs a retryable unit's failed action, waiting on the
// gate between attempts. attempts is the total budget per unit; values
// below 1 are clamped to 1.
func WithRetry(gate ReadinessGate, attempts int) ExecutorOption {
	return func(e *Executor) {
		if attempts < 1 {
			attempts = 1
		}
		e.gate = gate
		e.attempts = attempts
	}
}

// NewExecutor creates an Executor.
func NewExecutor(logger ports.Logger, opts ...ExecutorOption) *Executor {
	e := &Executor{logger: logger, attempts: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the selected subset of the registry. The returned
// RunResult covers every phase (executed, failed, or skipped) up to the
// abort point. A non-nil error is always ErrRequiredPhase-wrapped and
// means the run was aborted.
func (e *Executor) Execute(ctx context.Context, registry *Registry, selection Selection) (*RunResult, error) {
	result := &RunResult{}

	for _, p := range registry.Phases() {
		if !selection.Enabled(p.ID()) {
			e.logger.Info(ctx, "phase skipped", ports.F("phase", p.Label()))
			result.Phases = append(result.Phases, PhaseResult{
				ID:     p.ID(),
				Label:  p.Label(),
				Status: PhaseSkipped,
			})
			continue
		}

		e.logger.Info(ctx, "phase starting", ports.F("phase", p.Label()))

		if p.IsRequired() {
			phaseResult, err := e.runRequired(ctx, p)
			result.Phases = append(result.Phases, phaseResult)
			if err != nil {
				e.logger.Error(ctx, "required phase failed, aborting run",
					ports.F("phase", p.Label()), ports.F("error", err))
				return result, fmt.Errorf("%w: %s: %w", ErrRequiredPhase, p.Label(), err)
			}
			continue
		}

		result.Phases = append(result.Phases, e.runIsolated(ctx, p))
	}

	return result, nil
}

// runRequired executes the required phase with fail-fast semantics:
// the first unit failure stops the phase and surfaces an error.
func (e *Executor) runRequired(ctx context.Context, p *Phase) (PhaseResult, error) {
	phaseResult := PhaseResult{ID: p.ID(), Label: p.Label(), Status: PhaseSuccess}

	for _, unit := range p.Units() {
		unitResult := e.runUnit(ctx, unit)
		phaseResult.Units = append(phaseResult.Units, unitResult)

		if unitResult.Status() == step.StatusFailed {
			phaseResult.Status = PhaseFailed
			return phaseResult, unitResult.Error()
		}
	}

	return phaseResult, nil
}

// runIsolated executes an optional phase with fail-soft semantics:
// every unit runs regardless of sibling failures, and nothing
// propagates beyond the phase.
func (e *Executor) runIsolated(ctx context.Context, p *Phase) PhaseResult {
	phaseResult := PhaseResult{ID: p.ID(), Label: p.Label(), Status: PhaseSuccess}

	for _, unit := range p.Units() {
		unitResult := e.runUnit(ctx, unit)
		phaseResult.Units = append(phaseResult.Units, unitResult)

		if unitResult.Status() == step.StatusFailed {
			phaseResult.Status = PhaseFailed
		}
	}

	return phaseResult
}

// runUnit evaluates one unit: idempotency check, then apply. Panics in
// unit actions are converted into failed results so one broken unit
// never takes down its siblings.
func (e *Executor) runUnit(ctx context.Context, unit *step.Unit) (result step.Result) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("unit panicked: %v", r)
			e.logger.Error(ctx, "unit panicked",
				ports.F("unit", unit.ID().String()), ports.F("panic", r))
			result = step.NewResult(unit.ID(), step.StatusFailed, err)
		}
	}()

	if !unit.Unconditional() {
		status, err := unit.Check(ctx)
		if err != nil {
			// Probe errors are advisory; fall through and attempt apply.
			e.logger.Warn(ctx, "idempotency check failed",
				ports.F("unit", unit.ID().String()), ports.F("error", err))
			status = step.StatusUnknown
		}
		if status == step.StatusSatisfied {
			e.logger.Debug(ctx, "unit already satisfied", ports.F("unit", unit.ID().String()))
			return step.NewResult(unit.ID(), step.StatusSkipped, nil)
		}
	}

	start := time.Now()
	applyErr := e.apply(ctx, unit)
	duration := time.Since(start)

	if applyErr != nil {
		e.logger.Error(ctx, "unit failed",
			ports.F("unit", unit.ID().String()), ports.F("error", applyErr))
		return step.NewResult(unit.ID(), step.StatusFailed, applyErr).WithDuration(duration)
	}

	e.logger.Info(ctx, "unit applied",
		ports.F("unit", unit.ID().String()), ports.F("duration", duration.Round(time.Millisecond)))
	return step.NewResult(unit.ID(), step.StatusSatisfied, nil).WithDuration(duration)
}

// apply runs the unit's action. Retryable units get the configured
// attempt budget, with a gate wait between attempts; everything else
// gets exactly one attempt.
func (e *Executor) apply(ctx context.Context, unit *step.Unit) error {
	applyErr := unit.Apply(ctx)
	if !unit.IsRetryable() || e.gate == nil {
		return applyErr
	}

	for attempt := 2; applyErr != nil && attempt <= e.attempts; attempt++ {
		if gateErr := e.gate.Wait(ctx); gateErr != nil {
			// Operator declined to keep waiting; stop retrying.
			break
		}
		e.logger.Info(ctx, "retrying unit",
			ports.F("unit", unit.ID().String()), ports.F("attempt", attempt))
		applyErr = unit.Apply(ctx)
	}

	return applyErr
}
