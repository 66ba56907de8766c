package macos

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/macsetup/internal/domain/catalog"
	"github.com/felixgeelhaar/macsetup/internal/domain/step"
)

func (p *Provider) defaultsUnit(setting catalog.Setting) *step.Unit {
	check := func(ctx context.Context) (step.Status, error) {
		result, err := p.runner.Run(ctx, "defaults", "read", setting.Domain, setting.Key)
		if err != nil {
			return step.StatusUnknown, err
		}
		if !result.Success() {
			// Key not set yet.
			return step.StatusNeedsApply, nil
		}
		if strings.TrimSpace(result.Stdout) == readValue(setting) {
			return step.StatusSatisfied, nil
		}
		return step.StatusNeedsApply, nil
	}

	apply := func(ctx context.Context) error {
		args := append([]string{"write", setting.Domain, setting.Key}, writeArgs(setting)...)
		result, err := p.runner.Run(ctx, "defaults", args...)
		if err != nil {
			return err
		}
		if !result.Success() {
			return fmt.Errorf("defaults write %s %s failed: %s", setting.Domain, setting.Key, result.Stderr)
		}
		return nil
	}

	return step.NewUnit(
		step.MustNewID(fmt.Sprintf("macos:defaults:%s:%s", setting.Domain, setting.Key)),
		setting.Domain+" "+setting.Key,
		apply,
		step.WithCheck(check),
	)
}

// restartUI reloads Dock and Finder so applied settings take effect.
// killall failing (process not running) is not an error.
func (p *Provider) restartUI() *step.Unit {
	apply := func(ctx context.Context) error {
		for _, proc := range []string{"Dock", "Finder"} {
			if _, err := p.runner.Run(ctx, "killall", proc); err != nil {
				return err
			}
		}
		return nil
	}

	return step.NewUnit(
		step.MustNewID("macos:restart-ui"),
		"Restart Dock and Finder",
		apply,
	)
}

// writeArgs renders the typed value flags for defaults write.
func writeArgs(setting catalog.Setting) []string {
	switch setting.Type {
	case "bool":
		if v, ok := setting.Value.(bool); ok && v {
			return []string{"-bool", "true"}
		}
		return []string{"-bool", "false"}
	case "int":
		return []string{"-int", fmt.Sprintf("%v", setting.Value)}
	case "float":
		return []string{"-float", fmt.Sprintf("%v", setting.Value)}
	default:
		return []string{"-string", fmt.Sprintf("%v", setting.Value)}
	}
}

// readValue renders the value the way defaults read prints it; booleans
// come back as 1 and 0.
func readValue(setting catalog.Setting) string {
	if setting.Type == "bool" {
		if v, ok := setting.Value.(bool); ok && v {
			return "1"
		}
		return "0"
	}
	return fmt.Sprintf("%v", setting.Value)
}
