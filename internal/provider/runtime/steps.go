package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/macsetup/internal/domain/catalog"
	"github.com/felixgeelhaar/macsetup/internal/domain/step"
)

func (p *Provider) miseUnit(rt catalog.Runtime) *step.Unit {
	check := func(ctx context.Context) (step.Status, error) {
		result, err := p.runner.Run(ctx, "mise", "ls", "--installed", rt.Tool)
		if err != nil {
			return step.StatusUnknown, err
		}
		if !result.Success() {
			return step.StatusUnknown, fmt.Errorf("mise ls %s failed: %s", rt.Tool, result.Stderr)
		}

		installed := strings.TrimSpace(result.Stdout)
		if installed == "" {
			return step.StatusNeedsApply, nil
		}
		// Aliases like "lts" and "latest" resolve to moving targets;
		// any installed version satisfies them. Pinned versions must
		// appear in the listing.
		if pinned(rt.Version) && !strings.Contains(installed, rt.Version) {
			return step.StatusNeedsApply, nil
		}
		return step.StatusSatisfied, nil
	}

	apply := func(ctx context.Context) error {
		spec := rt.Tool + "@" + rt.Version
		result, err := p.runner.Run(ctx, "mise", "use", "-g", spec)
		if err != nil {
			return err
		}
		if !result.Success() {
			return fmt.Errorf("mise use -g %s failed: %s", spec, result.Stderr)
		}
		return nil
	}

	return step.NewUnit(
		step.MustNewID("runtime:mise:"+rt.Tool),
		rt.Tool+" toolchain",
		apply,
		step.WithCheck(check),
		step.Retryable(),
	)
}

func (p *Provider) ollamaUnit() *step.Unit {
	check := func(ctx context.Context) (step.Status, error) {
		result, err := p.runner.Run(ctx, "ollama", "list")
		if err != nil {
			return step.StatusUnknown, err
		}
		if !result.Success() {
			return step.StatusUnknown, fmt.Errorf("ollama list failed: %s", result.Stderr)
		}
		// Listed names carry a tag suffix ("llama3.2:latest").
		for _, line := range strings.Split(result.Stdout, "\n") {
			name := strings.Fields(line)
			if len(name) > 0 && strings.HasPrefix(name[0], p.ollamaModel) {
				return step.StatusSatisfied, nil
			}
		}
		return step.StatusNeedsApply, nil
	}

	apply := func(ctx context.Context) error {
		result, err := p.runner.Run(ctx, "ollama", "pull", p.ollamaModel)
		if err != nil {
			return err
		}
		if !result.Success() {
			return fmt.Errorf("ollama pull %s failed: %s", p.ollamaModel, result.Stderr)
		}
		return nil
	}

	return step.NewUnit(
		step.MustNewID("runtime:ollama:"+p.ollamaModel),
		"Ollama model "+p.ollamaModel,
		apply,
		step.WithCheck(check),
		step.Retryable(),
	)
}

func pinned(version string) bool {
	return version != "latest" && version != "lts" && version != "stable"
}
