// Package step defines the installable unit model: the smallest
// independently idempotent provisioning action.
package step

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// ID uniquely identifies a unit. Format: provider:action:resource
// (e.g. "brew:formula:ripgrep").
type ID struct {
	value string
}

// Errors for ID validation.
var (
	ErrEmptyID   = errors.New("unit ID cannot be empty")
	ErrInvalidID = errors.New("unit ID format invalid: must be alphanumeric with colons, hyphens, underscores, dots, or slashes")
)

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_./-]*(?::[a-zA-Z0-9][a-zA-Z0-9_./-]*)*$`)

// NewID creates a new ID from a string.
func NewID(value string) (ID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ID{}, ErrEmptyID
	}
	if !idPattern.MatchString(trimmed) {
		return ID{}, ErrInvalidID
	}
	return ID{value: trimmed}, nil
}

// MustNewID creates a new ID, panicking on error. Use for
// compile-time known values.
func MustNewID(value string) ID {
	id, err := NewID(value)
	if err != nil {
		panic("invalid unit ID: " + value + ": " + err.Error())
	}
	return id
}

// String returns the string representation.
func (id ID) String() string {
	return id.value
}

// Provider extracts the provider name (first segment).
func (id ID) Provider() string {
	parts := strings.SplitN(id.value, ":", 2)
	return parts[0]
}

// IsZero returns true if this is a zero-value ID.
func (id ID) IsZero() bool {
	return id.value == ""
}

// Status represents the observed or resulting state of a unit.
type Status string

const (
	// StatusSatisfied indicates the unit's target state already holds.
	StatusSatisfied Status = "satisfied"
	// StatusNeedsApply indicates the unit's action must run.
	StatusNeedsApply Status = "needs-apply"
	// StatusUnknown indicates the state could not be determined.
	StatusUnknown Status = "unknown"
	// StatusFailed indicates the action failed.
	StatusFailed Status = "failed"
	// StatusSkipped indicates the unit did not run (already satisfied
	// or its phase was not selected).
	StatusSkipped Status = "skipped"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// CheckFunc probes whether a unit's target state already holds.
type CheckFunc func(ctx context.Context) (Status, error)

// ApplyFunc performs a unit's provisioning action.
type ApplyFunc func(ctx context.Context) error

// Unit is one discrete provisioning action: install a package, write a
// config file, create a symlink, run a setup command.
type Unit struct {
	id        ID
	label     string
	check     CheckFunc
	apply     ApplyFunc
	retryable bool
}

// Option configures a Unit.
type Option func(*Unit)

// WithCheck sets the idempotency predicate. Units without one are
// unconditional and always re-run.
func WithCheck(check CheckFunc) Option {
	return func(u *Unit) {
		u.check = check
	}
}

// Retryable marks the unit's action as network-dependent and safe to
// retry.
func Retryable() Option {
	return func(u *Unit) {
		u.retryable = true
	}
}

// NewUnit creates a Unit with the given identity and action.
func NewUnit(id ID, label string, apply ApplyFunc, opts ...Option) *Unit {
	u := &Unit{
		id:    id,
		label: label,
		apply: apply,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// ID returns the unit identifier.
func (u *Unit) ID() ID {
	return u.id
}

// Label returns the human-readable label.
func (u *Unit) Label() string {
	return u.label
}

// Unconditional reports whether the unit lacks an idempotency
// predicate and therefore always executes.
func (u *Unit) Unconditional() bool {
	return u.check == nil
}

// IsRetryable reports whether the unit's action may be retried.
func (u *Unit) IsRetryable() bool {
	return u.retryable
}

// Check evaluates the idempotency predicate. Unconditional units
// always report StatusNeedsApply.
func (u *Unit) Check(ctx context.Context) (Status, error) {
	if u.check == nil {
		return StatusNeedsApply, nil
	}
	return u.check(ctx)
}

// Apply executes the unit's action.
func (u *Unit) Apply(ctx context.Context) error {
	return u.apply(ctx)
}
