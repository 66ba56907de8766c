package brew

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/macsetup/internal/domain/catalog"
	"github.com/felixgeelhaar/macsetup/internal/domain/step"
)

func (p *Provider) tapUnit(tap string) *step.Unit {
	check := func(ctx context.Context) (step.Status, error) {
		result, err := p.runner.Run(ctx, "brew", "tap")
		if err != nil {
			return step.StatusUnknown, err
		}
		if !result.Success() {
			return step.StatusUnknown, fmt.Errorf("brew tap failed: %s", result.Stderr)
		}
		if containsLine(result.Stdout, tap) {
			return step.StatusSatisfied, nil
		}
		return step.StatusNeedsApply, nil
	}

	apply := func(ctx context.Context) error {
		result, err := p.runner.Run(ctx, "brew", "tap", tap)
		if err != nil {
			return err
		}
		if !result.Success() {
			return fmt.Errorf("brew tap %s failed: %s", tap, result.Stderr)
		}
		return nil
	}

	return step.NewUnit(
		step.MustNewID("brew:tap:"+tap),
		"Tap "+tap,
		apply,
		step.WithCheck(check),
		step.Retryable(),
	)
}

func (p *Provider) formulaUnit(formula catalog.Formula) *step.Unit {
	// brew list reports tap-scoped formulae by their short name.
	short := shortName(formula.Name)

	check := func(ctx context.Context) (step.Status, error) {
		result, err := p.runner.Run(ctx, "brew", "list", "--formula")
		if err != nil {
			return step.StatusUnknown, err
		}
		if !result.Success() {
			return step.StatusUnknown, fmt.Errorf("brew list failed: %s", result.Stderr)
		}
		if containsLine(result.Stdout, short) {
			return step.StatusSatisfied, nil
		}
		return step.StatusNeedsApply, nil
	}

	apply := func(ctx context.Context) error {
		args := append([]string{"install", formula.Name}, formula.Args...)
		result, err := p.runner.Run(ctx, "brew", args...)
		if err != nil {
			return err
		}
		if !result.Success() {
			return fmt.Errorf("brew install %s failed: %s", formula.Name, result.Stderr)
		}
		return nil
	}

	return step.NewUnit(
		step.MustNewID("brew:formula:"+formula.Name),
		"Install "+short,
		apply,
		step.WithCheck(check),
		step.Retryable(),
	)
}

func (p *Provider) caskUnit(cask catalog.Cask) *step.Unit {
	apply := func(ctx context.Context) error {
		result, err := p.runner.Run(ctx, "brew", "install", "--cask", cask.Name)
		if err != nil {
			return err
		}
		if !result.Success() {
			return fmt.Errorf("brew install --cask %s failed: %s", cask.Name, result.Stderr)
		}
		return nil
	}

	// The app bundle, not brew's bookkeeping, is the source of truth:
	// an app installed by hand still counts as satisfied.
	return step.NewUnit(
		step.MustNewID("brew:cask:"+cask.Name),
		"Install "+cask.App,
		apply,
		step.WithCheck(step.AppBundle(p.fs, cask.App)),
		step.Retryable(),
	)
}

func shortName(formula string) string {
	if i := strings.LastIndex(formula, "/"); i >= 0 {
		return formula[i+1:]
	}
	return formula
}

func containsLine(output, want string) bool {
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if strings.TrimSpace(line) == want {
			return true
		}
	}
	return false
}
