package git

import (
	"bytes"
	"context"
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/felixgeelhaar/macsetup/internal/domain/step"
	"github.com/felixgeelhaar/macsetup/internal/ports"
)

const defaultGlobalIgnore = `.DS_Store
*.swp
*.swo
.idea/
.vscode/
node_modules/
`

func (p *Provider) identityUnit() *step.Unit {
	wanted := map[string]map[string]string{
		"user": {
			"name":  p.identity.Name,
			"email": p.identity.Email,
		},
	}

	return step.NewUnit(
		step.MustNewID("git:identity"),
		"Git identity",
		p.mergeApply(wanted),
		step.WithCheck(p.mergeCheck(wanted)),
	)
}

func (p *Provider) signingUnit() *step.Unit {
	wanted := map[string]map[string]string{
		"commit": {"gpgsign": "true"},
		"gpg":    {"program": "gpg"},
	}

	return step.NewUnit(
		step.MustNewID("git:signing"),
		"Commit signing",
		p.mergeApply(wanted),
		step.WithCheck(p.mergeCheck(wanted)),
	)
}

func (p *Provider) globalIgnoreUnit() *step.Unit {
	wanted := map[string]map[string]string{
		"core": {"excludesfile": GlobalIgnorePath},
	}

	check := func(ctx context.Context) (step.Status, error) {
		if !p.fs.Exists(ports.ExpandPath(GlobalIgnorePath)) {
			return step.StatusNeedsApply, nil
		}
		return p.mergeCheck(wanted)(ctx)
	}

	apply := func(ctx context.Context) error {
		path := ports.ExpandPath(GlobalIgnorePath)
		if !p.fs.Exists(path) {
			if err := p.fs.WriteFile(path, []byte(defaultGlobalIgnore), 0o644); err != nil {
				return err
			}
		}
		return p.mergeApply(wanted)(ctx)
	}

	return step.NewUnit(
		step.MustNewID("git:global-ignore"),
		"Global gitignore",
		apply,
		step.WithCheck(check),
	)
}

// mergeCheck is satisfied when every wanted key already carries the
// wanted value. A missing or unparseable gitconfig means needs-apply.
func (p *Provider) mergeCheck(wanted map[string]map[string]string) step.CheckFunc {
	return func(_ context.Context) (step.Status, error) {
		cfg, err := p.loadGitconfig()
		if err != nil {
			return step.StatusNeedsApply, nil
		}
		for section, keys := range wanted {
			for key, value := range keys {
				if cfg.Section(section).Key(key).String() != value {
					return step.StatusNeedsApply, nil
				}
			}
		}
		return step.StatusSatisfied, nil
	}
}

// mergeApply sets the wanted keys and writes the file back, keeping
// every other section and key intact.
func (p *Provider) mergeApply(wanted map[string]map[string]string) step.ApplyFunc {
	return func(_ context.Context) error {
		cfg, err := p.loadGitconfig()
		if err != nil {
			return fmt.Errorf("reading %s: %w", GitconfigPath, err)
		}
		for section, keys := range wanted {
			for key, value := range keys {
				cfg.Section(section).Key(key).SetValue(value)
			}
		}

		var buf bytes.Buffer
		if _, err := cfg.WriteTo(&buf); err != nil {
			return fmt.Errorf("serializing gitconfig: %w", err)
		}
		return p.fs.WriteFile(ports.ExpandPath(GitconfigPath), buf.Bytes(), 0o644)
	}
}

func (p *Provider) loadGitconfig() (*ini.File, error) {
	path := ports.ExpandPath(GitconfigPath)
	if !p.fs.Exists(path) {
		return ini.Empty(), nil
	}
	data, err := p.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ini.Load(data)
}
