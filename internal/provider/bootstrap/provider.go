// Package bootstrap provisions the required core phase: the compiler
// toolchain and package manager everything later depends on. Its
// failure aborts the run.
package bootstrap

import (
	"runtime"

	"github.com/felixgeelhaar/macsetup/internal/domain/phase"
	"github.com/felixgeelhaar/macsetup/internal/domain/step"
	"github.com/felixgeelhaar/macsetup/internal/ports"
)

// PhaseID is the core phase's order key. It sorts first.
const PhaseID = 1

// Provider builds the core phase units.
type Provider struct {
	runner ports.CommandRunner
	lp     ports.LookPather
	fs     ports.FileSystem
	arch   string
}

// Option configures a Provider.
type Option func(*Provider)

// WithArch overrides the detected machine architecture. Tests use it
// to exercise the Apple Silicon path on any host.
func WithArch(arch string) Option {
	return func(p *Provider) {
		p.arch = arch
	}
}

// New creates a bootstrap provider.
func New(runner ports.CommandRunner, lp ports.LookPather, fs ports.FileSystem, opts ...Option) *Provider {
	p := &Provider{
		runner: runner,
		lp:     lp,
		fs:     fs,
		arch:   runtime.GOARCH,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Phase returns the required core phase.
func (p *Provider) Phase() *phase.Phase {
	units := []*step.Unit{p.xcodeCLT()}
	if p.arch == "arm64" {
		units = append(units, p.rosetta())
	}
	units = append(units, p.homebrew())

	return phase.New(PhaseID, "Core tools", units, phase.Required())
}
