// Package docker provisions the container runtime: colima as the VM
// layer and a readiness gate on the Docker daemon it exposes.
package docker

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/macsetup/internal/domain/phase"
	"github.com/felixgeelhaar/macsetup/internal/domain/step"
	"github.com/felixgeelhaar/macsetup/internal/ports"
)

// PhaseID is the containers phase's order key.
const PhaseID = 6

// Daemon poll defaults. colima start returns before dockerd accepts
// connections, so the readiness unit polls for a bounded window.
const (
	DefaultPollAttempts = 15
	DefaultPollInterval = 2 * time.Second
)

// Provider builds the containers phase units.
type Provider struct {
	runner       ports.CommandRunner
	pollAttempts int
	pollInterval time.Duration
}

// Option configures a Provider.
type Option func(*Provider)

// WithPoll overrides the daemon readiness poll bounds.
func WithPoll(attempts int, interval time.Duration) Option {
	return func(p *Provider) {
		if attempts > 0 {
			p.pollAttempts = attempts
		}
		if interval > 0 {
			p.pollInterval = interval
		}
	}
}

// New creates a docker provider.
func New(runner ports.CommandRunner, opts ...Option) *Provider {
	p := &Provider{
		runner:       runner,
		pollAttempts: DefaultPollAttempts,
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Phase returns the containers phase.
func (p *Provider) Phase() *phase.Phase {
	units := []*step.Unit{
		p.colima(),
		p.daemonReady(),
	}
	return phase.New(PhaseID, "Containers", units)
}

func (p *Provider) colima() *step.Unit {
	check := func(ctx context.Context) (step.Status, error) {
		result, err := p.runner.Run(ctx, "colima", "status")
		if err != nil {
			return step.StatusUnknown, err
		}
		if result.Success() {
			return step.StatusSatisfied, nil
		}
		return step.StatusNeedsApply, nil
	}

	apply := func(ctx context.Context) error {
		result, err := p.runner.Run(ctx, "colima", "start")
		if err != nil {
			return err
		}
		if !result.Success() {
			return fmt.Errorf("colima start failed: %s", result.Stderr)
		}
		return nil
	}

	return step.NewUnit(
		step.MustNewID("containers:colima"),
		"Colima VM",
		apply,
		step.WithCheck(check),
	)
}

func (p *Provider) daemonReady() *step.Unit {
	probe := func(ctx context.Context) bool {
		result, err := p.runner.Run(ctx, "docker", "info")
		return err == nil && result.Success()
	}

	check := func(ctx context.Context) (step.Status, error) {
		if probe(ctx) {
			return step.StatusSatisfied, nil
		}
		return step.StatusNeedsApply, nil
	}

	apply := func(ctx context.Context) error {
		for attempt := 1; attempt <= p.pollAttempts; attempt++ {
			if probe(ctx) {
				return nil
			}
			if attempt == p.pollAttempts {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.pollInterval):
			}
		}
		return fmt.Errorf("docker daemon not ready after %d probes", p.pollAttempts)
	}

	return step.NewUnit(
		step.MustNewID("containers:daemon-ready"),
		"Docker daemon readiness",
		apply,
		step.WithCheck(check),
	)
}
