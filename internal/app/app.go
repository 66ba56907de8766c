// Package app wires the adapters, providers, and domain engine into a
// complete provisioning run.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/macsetup/internal/adapters/command"
	"github.com/felixgeelhaar/macsetup/internal/adapters/filesystem"
	"github.com/felixgeelhaar/macsetup/internal/adapters/logging"
	"github.com/felixgeelhaar/macsetup/internal/adapters/network"
	"github.com/felixgeelhaar/macsetup/internal/domain/catalog"
	"github.com/felixgeelhaar/macsetup/internal/domain/config"
	"github.com/felixgeelhaar/macsetup/internal/domain/netwait"
	"github.com/felixgeelhaar/macsetup/internal/domain/phase"
	"github.com/felixgeelhaar/macsetup/internal/domain/report"
	"github.com/felixgeelhaar/macsetup/internal/privilege"
	"github.com/felixgeelhaar/macsetup/internal/provider/bootstrap"
	"github.com/felixgeelhaar/macsetup/internal/provider/brew"
	"github.com/felixgeelhaar/macsetup/internal/provider/docker"
	"github.com/felixgeelhaar/macsetup/internal/provider/git"
	"github.com/felixgeelhaar/macsetup/internal/provider/macos"
	"github.com/felixgeelhaar/macsetup/internal/provider/mobile"
	"github.com/felixgeelhaar/macsetup/internal/provider/runtime"
	"github.com/felixgeelhaar/macsetup/internal/provider/shell"
	"github.com/felixgeelhaar/macsetup/internal/provider/vscode"
	"github.com/felixgeelhaar/macsetup/internal/ports"
	"github.com/felixgeelhaar/macsetup/internal/tui"
)

// Attempt budget for network-dependent units.
const networkRetries = 3

// Options configure a run.
type Options struct {
	ConfigPath  string
	Interactive bool
	Verbose     bool

	// TTY reports whether stdout is a terminal; it decides between the
	// checklist UI and the line selector in interactive mode.
	TTY bool

	In  io.Reader
	Out io.Writer
}

// Run executes one full provisioning session: select phases, execute
// them, then validate the resulting system state. The returned error is
// non-nil only when the run was aborted (required phase failed) or
// could not start at all.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	runID := uuid.NewString()

	out := opts.Out
	transcript, err := logging.OpenTranscript(logging.TranscriptPath, runID)
	if err == nil {
		out = transcript.Writer(opts.Out)
	}
	defer transcript.Close()

	level := ports.LevelInfo
	if opts.Verbose {
		level = ports.LevelDebug
	}
	logger := logging.NewConsoleLogger(
		logging.WithOutput(out),
		logging.WithLevel(level),
	).With(ports.F("run", runID))

	if err != nil {
		logger.Warn(ctx, "transcript unavailable, logging to terminal only", ports.F("error", err))
	}
	logger.Info(ctx, "run starting", ports.F("config", opts.ConfigPath))

	toggles := config.ResolveToggles(ctx, cfg.Toggles, logger)

	cat, err := catalog.Load()
	if err != nil {
		return err
	}

	runner := command.NewRealRunner()
	fs := filesystem.NewRealFileSystem()
	prober := network.NewDialProber(network.DefaultEndpoint, 0)
	prompter := network.NewTerminalPrompter(opts.In, out)
	waiter := netwait.NewWaiter(prober, prompter, logger)

	keepAlive := privilege.NewKeepAlive(runner, logger)
	if err := keepAlive.Start(ctx); err != nil {
		// Installers that need sudo will prompt on their own.
		logger.Warn(ctx, "sudo keep-alive unavailable", ports.F("error", err))
	}
	defer keepAlive.Release()

	registry, err := buildRegistry(cfg, cat, toggles, runner, fs)
	if err != nil {
		return err
	}

	selection, err := selectPhases(registry, opts, out)
	if err != nil {
		if errors.Is(err, tui.ErrCancelled) {
			logger.Info(ctx, "run cancelled before execution")
			return nil
		}
		return err
	}

	executor := phase.NewExecutor(logger, phase.WithRetry(waiter, networkRetries))
	result, execErr := executor.Execute(ctx, registry, selection)

	renderer := report.NewRenderer(out)
	renderer.RenderPhases(result)

	if execErr != nil {
		// The machine is in an unknown state; probing it would only
		// mislead. The validator does not run after an abort.
		return execErr
	}

	validator := report.NewValidator(logger, buildChecks(cfg, cat, toggles, runner, fs)...)
	outcome := validator.Run(ctx)
	renderer.RenderOutcome(outcome, toggles.Disabled())

	logger.Info(ctx, "run finished",
		ports.F("phases_succeeded", result.Succeeded()),
		ports.F("phases_failed", result.Failed()),
		ports.F("checks_failed", outcome.FailTally()))
	return nil
}

// selectPhases resolves the session's phase selection: batch mode takes
// everything, interactive mode asks through the checklist on a TTY and
// the line selector otherwise. The line selector's menu goes through
// out so it lands in the transcript; the checklist repaints the
// terminal directly and its outcome reaches the transcript via the
// run log.
func selectPhases(registry *phase.Registry, opts Options, out io.Writer) (phase.Selection, error) {
	if !opts.Interactive {
		return phase.SelectAll(registry), nil
	}
	if opts.TTY {
		return tui.Run(registry)
	}
	return phase.RunSelector(registry, opts.In, out)
}

// buildRegistry assembles the fixed phase catalog. Toggled-off groups
// contribute no units but their phases stay listed, so the selector
// menu is stable across configurations.
func buildRegistry(
	cfg *config.Config,
	cat *catalog.Catalog,
	toggles config.Toggles,
	runner ports.CommandRunner,
	fs ports.FileSystem,
) (*phase.Registry, error) {
	lp := command.NewRealRunner()

	shellPhase := shell.New(runner, fs).Phase()
	gitPhase := git.New(fs, cfg.Identity, cfg.Features.GPGSign).Phase()
	vscodePhase := vscode.New(runner, cat).Phase()
	dockerPhase := docker.New(runner).Phase()
	macosPhase := macos.New(runner, cat).Phase()

	return phase.NewRegistry(
		bootstrap.New(runner, lp, fs).Phase(),
		brew.New(runner, fs, cat, toggles.Enabled(config.ToggleCasks)).Phase(),
		gated(toggles.Enabled(config.ToggleShell), shellPhase),
		gated(toggles.Enabled(config.ToggleGit), gitPhase),
		gated(toggles.Enabled(config.ToggleVSCode), vscodePhase),
		gated(toggles.Enabled(config.ToggleDocker), dockerPhase),
		runtime.New(runner, cat, cfg.Features.OllamaModel,
			toggles.Enabled(config.ToggleRuntimes), toggles.Enabled(config.ToggleOllama)).Phase(),
		mobile.New(runner, cat,
			toggles.Enabled(config.ToggleAndroid), toggles.Enabled(config.ToggleIOS)).Phase(),
		gated(toggles.Enabled(config.ToggleDefaults), macosPhase),
	)
}

// gated empties a phase's unit list when its toggle is off, keeping the
// phase itself in the registry.
func gated(enabled bool, p *phase.Phase) *phase.Phase {
	if enabled {
		return p
	}
	return phase.New(p.ID(), p.Label(), nil)
}

// buildChecks assembles the validator's probe set from the catalog and
// the active toggles.
func buildChecks(
	cfg *config.Config,
	cat *catalog.Catalog,
	toggles config.Toggles,
	runner ports.CommandRunner,
	fs ports.FileSystem,
) []report.Check {
	lp := command.NewRealRunner()

	checks := []report.Check{
		report.CommandCheck(lp, "brew"),
		report.CommandCheck(lp, "git"),
		report.CommandCheck(lp, "mise"),
		report.MinVersionCheck(runner, "git version", "2.40.0", "git", "--version"),
		report.PathCheck(fs, "shell fragment", shell.FragmentPath),
		report.PathCheck(fs, "global gitignore", git.GlobalIgnorePath),
	}

	if toggles.Enabled(config.ToggleVSCode) {
		checks = append(checks, report.CommandCheck(lp, "code"))
	}
	if toggles.Enabled(config.ToggleDocker) {
		checks = append(checks,
			report.CommandCheck(lp, "docker"),
			report.DaemonCheck(runner, "Docker daemon", "docker", "info"),
		)
	}
	if toggles.Enabled(config.ToggleOllama) && cfg.Features.OllamaModel != "" {
		checks = append(checks,
			report.CommandCheck(lp, "ollama"),
			report.DaemonCheck(runner, "Ollama model "+cfg.Features.OllamaModel,
				"ollama", "show", cfg.Features.OllamaModel),
		)
	}
	if toggles.Enabled(config.ToggleCasks) {
		for _, cask := range cat.Casks {
			checks = append(checks, report.AppCheck(fs, cask.App))
		}
	}

	if cfg.Identity.Name == "" || cfg.Identity.Email == "" {
		checks = append(checks, report.ManualCheck("git identity",
			fmt.Sprintf("set identity.name and identity.email in %s", config.DefaultPath)))
	}

	return checks
}
