package shell

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/felixgeelhaar/macsetup/internal/domain/step"
	"github.com/felixgeelhaar/macsetup/internal/ports"
)

const sourceLine = `[ -f ~/.macsetup/zshrc ] && source ~/.macsetup/zshrc`

const fragment = `# Managed by macsetup. Re-running the tool regenerates this file;
# put personal configuration in ~/.zshrc instead.

export EDITOR=nvim

eval "$(mise activate zsh)"
eval "$(starship init zsh)"

source <(fzf --zsh)

alias ll='ls -lah'
alias cat='bat --paging=never 2>/dev/null || cat'
`

const starshipConfig = `# Managed by macsetup.
add_newline = true

[character]
success_symbol = "[❯](bold green)"
error_symbol = "[❯](bold red)"
`

func (p *Provider) ohMyZsh() *step.Unit {
	apply := func(ctx context.Context) error {
		target := ports.ExpandPath(OhMyZshDir)
		result, err := p.runner.Run(ctx, "git", "clone", "--depth=1", ohMyZshRepo, target)
		if err != nil {
			return err
		}
		if !result.Success() {
			return fmt.Errorf("cloning oh-my-zsh failed: %s", result.Stderr)
		}
		return nil
	}

	return step.NewUnit(
		step.MustNewID("shell:oh-my-zsh"),
		"Oh My Zsh",
		apply,
		step.WithCheck(step.PathExists(p.fs, OhMyZshDir)),
		step.Retryable(),
	)
}

// zshrcFragment is unconditional: the fragment is regenerated on every
// run so catalog changes propagate.
func (p *Provider) zshrcFragment() *step.Unit {
	apply := func(_ context.Context) error {
		if err := p.fs.MkdirAll(ports.ExpandPath(ManagedDir), 0o755); err != nil {
			return err
		}
		if err := p.fs.WriteFile(ports.ExpandPath(FragmentPath), []byte(fragment), 0o644); err != nil {
			return err
		}
		return p.ensureSourced()
	}

	return step.NewUnit(
		step.MustNewID("shell:zshrc-fragment"),
		"Shell configuration",
		apply,
	)
}

// ensureSourced makes ~/.zshrc load the managed fragment, appending
// the source line once. The rest of the file is never touched.
func (p *Provider) ensureSourced() error {
	path := ports.ExpandPath(ZshrcPath)

	var content string
	if data, err := p.fs.ReadFile(path); err == nil {
		content = string(data)
	}

	if strings.Contains(content, sourceLine) {
		return nil
	}

	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += sourceLine + "\n"

	return p.fs.WriteFile(path, []byte(content), os.FileMode(0o644))
}

func (p *Provider) starshipConfig() *step.Unit {
	source := ports.ExpandPath(StarshipSource)
	link := ports.ExpandPath(StarshipLink)

	check := func(_ context.Context) (step.Status, error) {
		if ok, target := p.fs.IsSymlink(link); ok && target == source {
			return step.StatusSatisfied, nil
		}
		return step.StatusNeedsApply, nil
	}

	apply := func(_ context.Context) error {
		if err := p.fs.MkdirAll(ports.ExpandPath(ManagedDir), 0o755); err != nil {
			return err
		}
		if !p.fs.Exists(source) {
			if err := p.fs.WriteFile(source, []byte(starshipConfig), 0o644); err != nil {
				return err
			}
		}
		if err := p.fs.MkdirAll(ports.ExpandPath("~/.config"), 0o755); err != nil {
			return err
		}
		if p.fs.Exists(link) {
			if err := p.fs.Remove(link); err != nil {
				return err
			}
		}
		return p.fs.CreateSymlink(source, link)
	}

	return step.NewUnit(
		step.MustNewID("shell:starship-config"),
		"Starship prompt configuration",
		apply,
		step.WithCheck(check),
	)
}
