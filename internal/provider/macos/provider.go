// Package macos applies the catalog's defaults-write settings and
// restarts the affected system UI processes.
package macos

import (
	"github.com/felixgeelhaar/macsetup/internal/domain/catalog"
	"github.com/felixgeelhaar/macsetup/internal/domain/phase"
	"github.com/felixgeelhaar/macsetup/internal/domain/step"
	"github.com/felixgeelhaar/macsetup/internal/ports"
)

// PhaseID is the macOS phase's order key. It runs last so UI restarts
// happen once everything else has settled.
const PhaseID = 9

// Provider builds the macOS phase units.
type Provider struct {
	runner  ports.CommandRunner
	catalog *catalog.Catalog
}

// New creates a macos provider.
func New(runner ports.CommandRunner, cat *catalog.Catalog) *Provider {
	return &Provider{runner: runner, catalog: cat}
}

// Phase returns the macOS phase. The UI restart unit is unconditional
// and last: it must run whenever any setting changed, and re-running
// it when nothing changed is harmless.
func (p *Provider) Phase() *phase.Phase {
	units := make([]*step.Unit, 0, len(p.catalog.Settings)+1)
	for _, setting := range p.catalog.Settings {
		units = append(units, p.defaultsUnit(setting))
	}
	units = append(units, p.restartUI())
	return phase.New(PhaseID, "macOS settings", units)
}
