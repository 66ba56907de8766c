package bootstrap

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/macsetup/internal/domain/step"
	"github.com/felixgeelhaar/macsetup/internal/ports"
)

const rosettaRuntime = "/Library/Apple/usr/share/rosetta/rosetta"

const brewInstaller = "https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh"

func (p *Provider) xcodeCLT() *step.Unit {
	check := func(ctx context.Context) (step.Status, error) {
		result, err := p.runner.Run(ctx, "xcode-select", "-p")
		if err != nil {
			return step.StatusUnknown, err
		}
		if result.Success() {
			return step.StatusSatisfied, nil
		}
		return step.StatusNeedsApply, nil
	}

	apply := func(ctx context.Context) error {
		result, err := p.runner.Run(ctx, "xcode-select", "--install")
		if err != nil {
			return err
		}
		if !result.Success() {
			return ports.NewCommandError("xcode-select --install", result)
		}
		return nil
	}

	return step.NewUnit(
		step.MustNewID("core:xcode-clt"),
		"Xcode Command Line Tools",
		apply,
		step.WithCheck(check),
	)
}

func (p *Provider) rosetta() *step.Unit {
	apply := func(ctx context.Context) error {
		result, err := p.runner.Run(ctx, "softwareupdate", "--install-rosetta", "--agree-to-license")
		if err != nil {
			return err
		}
		if !result.Success() {
			return ports.NewCommandError("softwareupdate --install-rosetta", result)
		}
		return nil
	}

	return step.NewUnit(
		step.MustNewID("core:rosetta"),
		"Rosetta 2",
		apply,
		step.WithCheck(step.PathExists(p.fs, rosettaRuntime)),
		step.Retryable(),
	)
}

func (p *Provider) homebrew() *step.Unit {
	apply := func(ctx context.Context) error {
		script := fmt.Sprintf(`NONINTERACTIVE=1 /bin/bash -c "$(curl -fsSL %s)"`, brewInstaller)
		result, err := p.runner.Run(ctx, "/bin/bash", "-c", script)
		if err != nil {
			return err
		}
		if !result.Success() {
			return ports.NewCommandError("homebrew install", result)
		}
		return nil
	}

	return step.NewUnit(
		step.MustNewID("core:homebrew"),
		"Homebrew",
		apply,
		step.WithCheck(step.CommandOnPath(p.lp, "brew")),
		step.Retryable(),
	)
}
