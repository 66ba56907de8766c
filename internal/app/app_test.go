package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/macsetup/internal/adapters/logging"
	"github.com/felixgeelhaar/macsetup/internal/domain/catalog"
	"github.com/felixgeelhaar/macsetup/internal/domain/config"
	"github.com/felixgeelhaar/macsetup/internal/domain/report"
	"github.com/felixgeelhaar/macsetup/internal/testutil/mocks"
)

func allToggles(t *testing.T, overrides map[string]bool) config.Toggles {
	t.Helper()
	return config.ResolveToggles(context.Background(), overrides, logging.NewNopLogger())
}

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	return cat
}

func TestBuildRegistry_NinePhasesRequiredFirst(t *testing.T) {
	runner := mocks.NewCommandRunner()
	fs := mocks.NewFileSystem()

	reg, err := buildRegistry(config.Default(), loadCatalog(t), allToggles(t, nil), runner, fs)
	require.NoError(t, err)

	phases := reg.Phases()
	require.Len(t, phases, 9)
	assert.True(t, phases[0].IsRequired())
	for _, p := range phases[1:] {
		assert.False(t, p.IsRequired())
	}
}

func TestBuildRegistry_ToggledOffPhaseKeepsSlot(t *testing.T) {
	runner := mocks.NewCommandRunner()
	fs := mocks.NewFileSystem()
	toggles := allToggles(t, map[string]bool{
		config.ToggleShell:    false,
		config.ToggleDefaults: false,
	})

	reg, err := buildRegistry(config.Default(), loadCatalog(t), toggles, runner, fs)
	require.NoError(t, err)

	require.Len(t, reg.Phases(), 9)

	shellPhase := reg.ByID(3)
	require.NotNil(t, shellPhase)
	assert.Equal(t, "Shell", shellPhase.Label())
	assert.Empty(t, shellPhase.Units())

	macosPhase := reg.ByID(9)
	require.NotNil(t, macosPhase)
	assert.Empty(t, macosPhase.Units())
}

func TestBuildRegistry_CasksToggleFiltersUnits(t *testing.T) {
	runner := mocks.NewCommandRunner()
	fs := mocks.NewFileSystem()
	toggles := allToggles(t, map[string]bool{config.ToggleCasks: false})

	reg, err := buildRegistry(config.Default(), loadCatalog(t), toggles, runner, fs)
	require.NoError(t, err)

	for _, u := range reg.ByID(2).Units() {
		assert.False(t, strings.HasPrefix(u.ID().String(), "brew:cask:"))
	}
}

func TestSelectPhases_BatchSelectsEverything(t *testing.T) {
	runner := mocks.NewCommandRunner()
	fs := mocks.NewFileSystem()

	reg, err := buildRegistry(config.Default(), loadCatalog(t), allToggles(t, nil), runner, fs)
	require.NoError(t, err)

	sel, err := selectPhases(reg, Options{Interactive: false}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 9, sel.Count())
}

func TestSelectPhases_InteractiveLineProtocol(t *testing.T) {
	runner := mocks.NewCommandRunner()
	fs := mocks.NewFileSystem()

	reg, err := buildRegistry(config.Default(), loadCatalog(t), allToggles(t, nil), runner, fs)
	require.NoError(t, err)

	var out strings.Builder
	sel, err := selectPhases(reg, Options{
		Interactive: true,
		TTY:         false,
		In:          strings.NewReader("6 8\n\n"),
	}, &out)
	require.NoError(t, err)

	assert.False(t, sel.Enabled(6))
	assert.False(t, sel.Enabled(8))
	assert.True(t, sel.Enabled(1))
	assert.Equal(t, 7, sel.Count())
}

func TestBuildChecks_IdentityManualFollowUp(t *testing.T) {
	runner := mocks.NewCommandRunner()
	fs := mocks.NewFileSystem()

	withIdentity := config.Default()
	withIdentity.Identity = config.Identity{Name: "Ada", Email: "ada@example.com"}

	named := checkNames(buildChecks(withIdentity, loadCatalog(t), allToggles(t, nil), runner, fs))
	assert.NotContains(t, named, "git identity")

	anonymous := checkNames(buildChecks(config.Default(), loadCatalog(t), allToggles(t, nil), runner, fs))
	assert.Contains(t, anonymous, "git identity")
}

func TestBuildChecks_TogglesScopeProbes(t *testing.T) {
	runner := mocks.NewCommandRunner()
	fs := mocks.NewFileSystem()
	toggles := allToggles(t, map[string]bool{
		config.ToggleDocker: false,
		config.ToggleOllama: false,
		config.ToggleCasks:  false,
	})

	named := checkNames(buildChecks(config.Default(), loadCatalog(t), toggles, runner, fs))
	assert.NotContains(t, named, "Docker daemon")
	assert.NotContains(t, named, "Ollama model llama3.2")
	assert.NotContains(t, named, "Raycast installed")
	assert.Contains(t, named, "git on PATH")
}

func checkNames(checks []report.Check) []string {
	names := make([]string, 0, len(checks))
	for _, c := range checks {
		names = append(names, c.Name)
	}
	return names
}

func TestReportAndMenuReachTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macsetup.log")
	transcript, err := logging.OpenTranscript(path, "run-1")
	require.NoError(t, err)

	var terminal strings.Builder
	out := transcript.Writer(&terminal)

	runner := mocks.NewCommandRunner()
	fs := mocks.NewFileSystem()
	reg, err := buildRegistry(config.Default(), loadCatalog(t), allToggles(t, nil), runner, fs)
	require.NoError(t, err)

	_, err = selectPhases(reg, Options{
		Interactive: true,
		TTY:         false,
		In:          strings.NewReader("\n"),
	}, out)
	require.NoError(t, err)

	renderer := report.NewRenderer(out)
	renderer.RenderOutcome(&report.Outcome{Lines: []report.Line{
		{Name: "git on PATH", Status: report.StatusPass, Detail: "/usr/bin/git"},
		{Name: "Docker daemon", Status: report.StatusFail},
	}}, nil)
	require.NoError(t, transcript.Close())

	logged, err := os.ReadFile(path)
	require.NoError(t, err)

	for _, keep := range []string{"Core tools", "git on PATH", "1 passed, 1 failed"} {
		assert.Contains(t, string(logged), keep, "transcript must duplicate all run output")
		assert.Contains(t, terminal.String(), keep)
	}
}
