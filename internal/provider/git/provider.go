// Package git provisions ~/.gitconfig by merge-inserting the managed
// keys into whatever the user already has. Unrelated sections and keys
// are preserved verbatim.
package git

import (
	"github.com/felixgeelhaar/macsetup/internal/domain/config"
	"github.com/felixgeelhaar/macsetup/internal/domain/phase"
	"github.com/felixgeelhaar/macsetup/internal/domain/step"
	"github.com/felixgeelhaar/macsetup/internal/ports"
)

// PhaseID is the git phase's order key.
const PhaseID = 4

// Managed file locations.
const (
	GitconfigPath    = "~/.gitconfig"
	GlobalIgnorePath = "~/.gitignore_global"
)

// Provider builds the git phase units.
type Provider struct {
	fs       ports.FileSystem
	identity config.Identity
	gpgSign  bool
}

// New creates a git provider.
func New(fs ports.FileSystem, identity config.Identity, gpgSign bool) *Provider {
	return &Provider{
		fs:       fs,
		identity: identity,
		gpgSign:  gpgSign,
	}
}

// HasIdentity reports whether both name and email are configured. When
// they are not, the identity unit is left out and the final report
// carries a manual follow-up instead.
func (p *Provider) HasIdentity() bool {
	return p.identity.Name != "" && p.identity.Email != ""
}

// Phase returns the git phase.
func (p *Provider) Phase() *phase.Phase {
	var units []*step.Unit
	if p.HasIdentity() {
		units = append(units, p.identityUnit())
	}
	if p.gpgSign {
		units = append(units, p.signingUnit())
	}
	units = append(units, p.globalIgnoreUnit())

	return phase.New(PhaseID, "Git", units)
}
