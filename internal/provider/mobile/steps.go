package mobile

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/macsetup/internal/domain/step"
)

func (p *Provider) androidPackage(pkg string) *step.Unit {
	// sdkmanager paths use ';' ("platforms;android-35"), which unit ids
	// do not admit.
	idSuffix := strings.ReplaceAll(pkg, ";", "/")

	check := func(ctx context.Context) (step.Status, error) {
		result, err := p.runner.Run(ctx, "sdkmanager", "--list_installed")
		if err != nil {
			return step.StatusUnknown, err
		}
		if !result.Success() {
			return step.StatusUnknown, fmt.Errorf("sdkmanager --list_installed failed: %s", result.Stderr)
		}
		for _, line := range strings.Split(result.Stdout, "\n") {
			fields := strings.Fields(line)
			if len(fields) > 0 && fields[0] == pkg {
				return step.StatusSatisfied, nil
			}
		}
		return step.StatusNeedsApply, nil
	}

	apply := func(ctx context.Context) error {
		result, err := p.runner.Run(ctx, "sdkmanager", "--install", pkg)
		if err != nil {
			return err
		}
		if !result.Success() {
			return fmt.Errorf("sdkmanager --install %s failed: %s", pkg, result.Stderr)
		}
		return nil
	}

	return step.NewUnit(
		step.MustNewID("mobile:android:"+idSuffix),
		"Android "+pkg,
		apply,
		step.WithCheck(check),
		step.Retryable(),
	)
}

func (p *Provider) iosSimulatorRuntime() *step.Unit {
	check := func(ctx context.Context) (step.Status, error) {
		result, err := p.runner.Run(ctx, "xcrun", "simctl", "list", "runtimes")
		if err != nil {
			return step.StatusUnknown, err
		}
		if !result.Success() {
			return step.StatusUnknown, fmt.Errorf("simctl list runtimes failed: %s", result.Stderr)
		}
		if strings.Contains(result.Stdout, "iOS") {
			return step.StatusSatisfied, nil
		}
		return step.StatusNeedsApply, nil
	}

	apply := func(ctx context.Context) error {
		result, err := p.runner.Run(ctx, "xcodebuild", "-downloadPlatform", "iOS")
		if err != nil {
			return err
		}
		if !result.Success() {
			return fmt.Errorf("downloading iOS platform failed: %s", result.Stderr)
		}
		return nil
	}

	return step.NewUnit(
		step.MustNewID("mobile:ios-simulator"),
		"iOS simulator runtime",
		apply,
		step.WithCheck(check),
		step.Retryable(),
	)
}
