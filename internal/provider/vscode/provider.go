// Package vscode installs VS Code extensions from the catalog. The
// installed-extension list is fetched once per check, so every unit
// stays independently idempotent.
package vscode

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/macsetup/internal/domain/catalog"
	"github.com/felixgeelhaar/macsetup/internal/domain/phase"
	"github.com/felixgeelhaar/macsetup/internal/domain/step"
	"github.com/felixgeelhaar/macsetup/internal/ports"
)

// PhaseID is the editors phase's order key.
const PhaseID = 5

// Provider builds the editors phase units.
type Provider struct {
	runner  ports.CommandRunner
	catalog *catalog.Catalog
}

// New creates a vscode provider.
func New(runner ports.CommandRunner, cat *catalog.Catalog) *Provider {
	return &Provider{runner: runner, catalog: cat}
}

// Phase returns the editors phase.
func (p *Provider) Phase() *phase.Phase {
	units := make([]*step.Unit, 0, len(p.catalog.VSCodeExtensions))
	for _, ext := range p.catalog.VSCodeExtensions {
		units = append(units, p.extensionUnit(ext))
	}
	return phase.New(PhaseID, "Editors", units)
}

func (p *Provider) extensionUnit(ext string) *step.Unit {
	check := func(ctx context.Context) (step.Status, error) {
		result, err := p.runner.Run(ctx, "code", "--list-extensions")
		if err != nil {
			return step.StatusUnknown, err
		}
		if !result.Success() {
			return step.StatusUnknown, fmt.Errorf("code --list-extensions failed: %s", result.Stderr)
		}
		// code reports extension ids with publisher casing that varies
		// between releases.
		for _, line := range strings.Split(strings.TrimSpace(result.Stdout), "\n") {
			if strings.EqualFold(strings.TrimSpace(line), ext) {
				return step.StatusSatisfied, nil
			}
		}
		return step.StatusNeedsApply, nil
	}

	apply := func(ctx context.Context) error {
		result, err := p.runner.Run(ctx, "code", "--install-extension", ext)
		if err != nil {
			return err
		}
		if !result.Success() {
			return fmt.Errorf("installing extension %s failed: %s", ext, result.Stderr)
		}
		return nil
	}

	return step.NewUnit(
		step.MustNewID("vscode:extension:"+ext),
		"Extension "+ext,
		apply,
		step.WithCheck(check),
		step.Retryable(),
	)
}
