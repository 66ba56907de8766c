// Package brew turns the catalog's Homebrew sections into installable
// units: taps, formulae, and casks.
package brew

import (
	"github.com/felixgeelhaar/macsetup/internal/domain/catalog"
	"github.com/felixgeelhaar/macsetup/internal/domain/phase"
	"github.com/felixgeelhaar/macsetup/internal/domain/step"
	"github.com/felixgeelhaar/macsetup/internal/ports"
)

// PhaseID is the packages phase's order key.
const PhaseID = 2

// Provider builds the packages phase units.
type Provider struct {
	runner       ports.CommandRunner
	fs           ports.FileSystem
	catalog      *catalog.Catalog
	includeCasks bool
}

// New creates a brew provider. When includeCasks is false the cask
// section is left out entirely; formulae and taps are unaffected.
func New(runner ports.CommandRunner, fs ports.FileSystem, cat *catalog.Catalog, includeCasks bool) *Provider {
	return &Provider{
		runner:       runner,
		fs:           fs,
		catalog:      cat,
		includeCasks: includeCasks,
	}
}

// Phase returns the packages phase. Taps come first so tap-scoped
// formulae resolve; casks last.
func (p *Provider) Phase() *phase.Phase {
	var units []*step.Unit

	for _, tap := range p.catalog.Taps {
		units = append(units, p.tapUnit(tap))
	}
	for _, formula := range p.catalog.Formulae {
		units = append(units, p.formulaUnit(formula))
	}
	if p.includeCasks {
		for _, cask := range p.catalog.Casks {
			units = append(units, p.caskUnit(cask))
		}
	}

	return phase.New(PhaseID, "Packages", units)
}
