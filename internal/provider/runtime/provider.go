// Package runtime provisions language toolchains through mise and the
// local Ollama model. Both sections are toggle-driven.
package runtime

import (
	"github.com/felixgeelhaar/macsetup/internal/domain/catalog"
	"github.com/felixgeelhaar/macsetup/internal/domain/phase"
	"github.com/felixgeelhaar/macsetup/internal/domain/step"
	"github.com/felixgeelhaar/macsetup/internal/ports"
)

// PhaseID is the runtimes phase's order key.
const PhaseID = 7

// Provider builds the runtimes phase units.
type Provider struct {
	runner          ports.CommandRunner
	catalog         *catalog.Catalog
	ollamaModel     string
	includeToolsets bool
	includeOllama   bool
}

// New creates a runtime provider. ollamaModel comes from the user
// configuration; an empty model with includeOllama on falls back to
// nothing rather than guessing.
func New(runner ports.CommandRunner, cat *catalog.Catalog, ollamaModel string, includeToolsets, includeOllama bool) *Provider {
	return &Provider{
		runner:          runner,
		catalog:         cat,
		ollamaModel:     ollamaModel,
		includeToolsets: includeToolsets,
		includeOllama:   includeOllama,
	}
}

// Phase returns the runtimes phase.
func (p *Provider) Phase() *phase.Phase {
	var units []*step.Unit
	if p.includeToolsets {
		for _, rt := range p.catalog.Runtimes {
			units = append(units, p.miseUnit(rt))
		}
	}
	if p.includeOllama && p.ollamaModel != "" {
		units = append(units, p.ollamaUnit())
	}
	return phase.New(PhaseID, "Runtimes", units)
}
