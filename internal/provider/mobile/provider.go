// Package mobile provisions the mobile toolchains: Android SDK
// packages through sdkmanager and the iOS simulator runtime through
// xcodebuild. Both are toggle-driven and heavy downloads, so every
// unit is retryable.
package mobile

import (
	"github.com/felixgeelhaar/macsetup/internal/domain/catalog"
	"github.com/felixgeelhaar/macsetup/internal/domain/phase"
	"github.com/felixgeelhaar/macsetup/internal/domain/step"
	"github.com/felixgeelhaar/macsetup/internal/ports"
)

// PhaseID is the mobile phase's order key.
const PhaseID = 8

// Provider builds the mobile phase units.
type Provider struct {
	runner         ports.CommandRunner
	catalog        *catalog.Catalog
	includeAndroid bool
	includeIOS     bool
}

// New creates a mobile provider.
func New(runner ports.CommandRunner, cat *catalog.Catalog, includeAndroid, includeIOS bool) *Provider {
	return &Provider{
		runner:         runner,
		catalog:        cat,
		includeAndroid: includeAndroid,
		includeIOS:     includeIOS,
	}
}

// Phase returns the mobile phase.
func (p *Provider) Phase() *phase.Phase {
	var units []*step.Unit
	if p.includeAndroid {
		for _, pkg := range p.catalog.AndroidPackages {
			units = append(units, p.androidPackage(pkg))
		}
	}
	if p.includeIOS {
		units = append(units, p.iosSimulatorRuntime())
	}
	return phase.New(PhaseID, "Mobile", units)
}
