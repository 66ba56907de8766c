// Package phase defines the ordered phase catalog and the rules for
// selecting and executing phases.
package phase

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/macsetup/internal/domain/step"
)

// Phase is a named, ordered bundle of installable units.
type Phase struct {
	id       int
	label    string
	required bool
	units    []*step.Unit
}

// Option configures a Phase.
type Option func(*Phase)

// Required marks the phase as mandatory. The registry enforces that
// exactly one phase is required and that it sorts first.
func Required() Option {
	return func(p *Phase) {
		p.required = true
	}
}

// New creates a Phase with the given order key, label, and units.
func New(id int, label string, units []*step.Unit, opts ...Option) *Phase {
	p := &Phase{
		id:    id,
		label: label,
		units: units,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ID returns the numeric order key.
func (p *Phase) ID() int {
	return p.id
}

// Label returns the human-readable label.
func (p *Phase) Label() string {
	return p.label
}

// IsRequired reports whether the phase is mandatory.
func (p *Phase) IsRequired() bool {
	return p.required
}

// Units returns the phase's installable units in execution order.
func (p *Phase) Units() []*step.Unit {
	return p.units
}

// Registry construction errors.
var (
	ErrEmptyRegistry    = errors.New("registry needs at least one phase")
	ErrDuplicateID      = errors.New("phase ids must be unique and strictly increasing")
	ErrRequiredCount    = errors.New("exactly one phase must be required")
	ErrRequiredNotFirst = errors.New("the required phase must be the first entry")
)

// Registry is the fixed, ordered catalog of phases. It is immutable
// after construction.
type Registry struct {
	phases []*Phase
}

// NewRegistry builds a Registry, enforcing the catalog invariants:
// ids unique and strictly increasing, exactly one required phase, and
// the required phase first.
func NewRegistry(phases ...*Phase) (*Registry, error) {
	if len(phases) == 0 {
		return nil, ErrEmptyRegistry
	}

	requiredCount := 0
	lastID := 0
	for i, p := range phases {
		if i > 0 && p.id <= lastID {
			return nil, fmt.Errorf("%w: phase %q has id %d after %d", ErrDuplicateID, p.label, p.id, lastID)
		}
		lastID = p.id
		if p.required {
			requiredCount++
			if i != 0 {
				return nil, fmt.Errorf("%w: %q is at position %d", ErrRequiredNotFirst, p.label, i+1)
			}
		}
	}
	if requiredCount != 1 {
		return nil, fmt.Errorf("%w: found %d", ErrRequiredCount, requiredCount)
	}

	return &Registry{phases: phases}, nil
}

// Phases returns the phases in registry order.
func (r *Registry) Phases() []*Phase {
	return r.phases
}

// Required returns the single required phase.
func (r *Registry) Required() *Phase {
	return r.phases[0]
}

// ByID returns the phase with the given id, or nil.
func (r *Registry) ByID(id int) *Phase {
	for _, p := range r.phases {
		if p.id == id {
			return p
		}
	}
	return nil
}
