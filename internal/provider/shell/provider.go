// Package shell provisions the zsh environment: Oh My Zsh, a managed
// zshrc fragment, and symlinked dotfiles. Managed files live under
// ~/.macsetup/ so a re-run can regenerate them without touching the
// user's own edits in ~/.zshrc.
package shell

import (
	"github.com/felixgeelhaar/macsetup/internal/domain/phase"
	"github.com/felixgeelhaar/macsetup/internal/domain/step"
	"github.com/felixgeelhaar/macsetup/internal/ports"
)

// PhaseID is the shell phase's order key.
const PhaseID = 3

// Managed file locations.
const (
	OhMyZshDir     = "~/.oh-my-zsh"
	ManagedDir     = "~/.macsetup"
	FragmentPath   = "~/.macsetup/zshrc"
	ZshrcPath      = "~/.zshrc"
	StarshipSource = "~/.macsetup/starship.toml"
	StarshipLink   = "~/.config/starship.toml"
)

const ohMyZshRepo = "https://github.com/ohmyzsh/ohmyzsh.git"

// Provider builds the shell phase units.
type Provider struct {
	runner ports.CommandRunner
	fs     ports.FileSystem
}

// New creates a shell provider.
func New(runner ports.CommandRunner, fs ports.FileSystem) *Provider {
	return &Provider{runner: runner, fs: fs}
}

// Phase returns the shell phase.
func (p *Provider) Phase() *phase.Phase {
	units := []*step.Unit{
		p.ohMyZsh(),
		p.zshrcFragment(),
		p.starshipConfig(),
	}
	return phase.New(PhaseID, "Shell", units)
}
