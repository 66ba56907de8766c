// Package report implements the post-run validation pass: it re-derives
// the machine's state from live probes, independent of what the
// executor did, and produces the final pass/fail tally.
package report

import (
	"context"

	"github.com/felixgeelhaar/macsetup/internal/ports"
)

// Status is the outcome of one validation check.
type Status string

const (
	// StatusPass means the expected state holds.
	StatusPass Status = "pass"
	// StatusWarn means the state is absent but sometimes legitimately so
	// (e.g. a daemon not currently running). Counts toward the failure
	// tally but renders distinctly.
	StatusWarn Status = "warn"
	// StatusFail means the expected state does not hold.
	StatusFail Status = "fail"
	// StatusManual means the state cannot be provisioned automatically
	// and needs a follow-up by the operator.
	StatusManual Status = "manual"
)

// ProbeFunc re-derives one piece of machine state.
type ProbeFunc func(ctx context.Context) (Status, string)

// Check is a named validation probe.
type Check struct {
	Name  string
	Probe ProbeFunc
}

// Line is one rendered check outcome.
type Line struct {
	Name   string
	Status Status
	Detail string
}

// Outcome is the accumulated result of the validation pass.
type Outcome struct {
	Lines []Line
}

// Passed returns the number of passing checks.
func (o *Outcome) Passed() int { return o.count(StatusPass) }

// Warned returns the number of advisory checks.
func (o *Outcome) Warned() int { return o.count(StatusWarn) }

// Failed returns the number of hard failures.
func (o *Outcome) Failed() int { return o.count(StatusFail) }

// Manual returns the number of manual follow-ups.
func (o *Outcome) Manual() int { return o.count(StatusManual) }

// FailTally returns failures plus warnings: warnings count against the
// tally even though they render differently.
func (o *Outcome) FailTally() int {
	return o.Failed() + o.Warned()
}

func (o *Outcome) count(s Status) int {
	n := 0
	for _, l := range o.Lines {
		if l.Status == s {
			n++
		}
	}
	return n
}

// Validator runs a fixed list of checks against the live system.
type Validator struct {
	checks []Check
	logger ports.Logger
}

// NewValidator creates a Validator.
func NewValidator(logger ports.Logger, checks ...Check) *Validator {
	return &Validator{
		checks: checks,
		logger: logger,
	}
}

// Run evaluates every check and returns the tally. Probes never abort
// the pass; a panicking or erroring probe would defeat the point of a
// final report.
func (v *Validator) Run(ctx context.Context) *Outcome {
	outcome := &Outcome{}

	for _, check := range v.checks {
		status, detail := v.runProbe(ctx, check)
		outcome.Lines = append(outcome.Lines, Line{
			Name:   check.Name,
			Status: status,
			Detail: detail,
		})
	}

	return outcome
}

func (v *Validator) runProbe(ctx context.Context, check Check) (status Status, detail string) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error(ctx, "validation probe panicked",
				ports.F("check", check.Name), ports.F("panic", r))
			status = StatusFail
			detail = "probe panicked"
		}
	}()

	return check.Probe(ctx)
}
