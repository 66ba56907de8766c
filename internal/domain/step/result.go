package step

import "time"

// Result captures the outcome of evaluating one unit.
type Result struct {
	id       ID
	status   Status
	err      error
	duration time.Duration
}

// NewResult creates a new Result.
func NewResult(id ID, status Status, err error) Result {
	return Result{
		id:     id,
		status: status,
		err:    err,
	}
}

// ID returns the unit that was evaluated.
func (r Result) ID() ID {
	return r.id
}

// Status returns the final status.
func (r Result) Status() Status {
	return r.status
}

// Error returns any error that occurred.
func (r Result) Error() error {
	return r.err
}

// Duration returns how long the action took.
func (r Result) Duration() time.Duration {
	return r.duration
}

// Success reports whether the unit ended satisfied or was skipped as
// already satisfied.
func (r Result) Success() bool {
	return r.status == StatusSatisfied || r.status == StatusSkipped
}

// WithDuration returns a copy with duration set.
func (r Result) WithDuration(d time.Duration) Result {
	r.duration = d
	return r
}
