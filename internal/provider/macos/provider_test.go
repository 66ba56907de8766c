package macos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/macsetup/internal/domain/catalog"
	"github.com/felixgeelhaar/macsetup/internal/domain/step"
	"github.com/felixgeelhaar/macsetup/internal/ports"
	"github.com/felixgeelhaar/macsetup/internal/testutil/mocks"
)

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Settings: []catalog.Setting{
			{Domain: "com.apple.dock", Key: "autohide", Type: "bool", Value: true},
			{Domain: "com.apple.dock", Key: "tilesize", Type: "int", Value: 48},
		},
	}
}

func TestPhase_RestartUnitLastAndUnconditional(t *testing.T) {
	ph := New(mocks.NewCommandRunner(), testCatalog()).Phase()

	assert.Equal(t, PhaseID, ph.ID())
	require.Len(t, ph.Units(), 3)

	last := ph.Units()[2]
	assert.Equal(t, "macos:restart-ui", last.ID().String())
	assert.True(t, last.Unconditional())
}

func TestDefaults_BoolReadsBackAsDigit(t *testing.T) {
	runner := mocks.NewCommandRunner()
	runner.AddResult("defaults", []string{"read", "com.apple.dock", "autohide"}, ports.CommandResult{
		ExitCode: 0,
		Stdout:   "1\n",
	})

	autohide := New(runner, testCatalog()).Phase().Units()[0]
	status, err := autohide.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)
}

func TestDefaults_MissingKeyNeedsApply(t *testing.T) {
	runner := mocks.NewCommandRunner()
	runner.AddResult("defaults", []string{"read", "com.apple.dock", "autohide"}, ports.CommandResult{
		ExitCode: 1,
		Stderr:   "does not exist",
	})

	autohide := New(runner, testCatalog()).Phase().Units()[0]
	status, err := autohide.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)
}

func TestDefaults_MismatchedValueNeedsApply(t *testing.T) {
	runner := mocks.NewCommandRunner()
	runner.AddResult("defaults", []string{"read", "com.apple.dock", "tilesize"}, ports.CommandResult{
		ExitCode: 0,
		Stdout:   "64\n",
	})

	tilesize := New(runner, testCatalog()).Phase().Units()[1]
	status, err := tilesize.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)
}

func TestDefaults_ApplyWritesTypedValue(t *testing.T) {
	runner := mocks.NewCommandRunner()
	runner.AddResult("defaults", []string{"write", "com.apple.dock", "autohide", "-bool", "true"}, ports.CommandResult{ExitCode: 0})
	runner.AddResult("defaults", []string{"write", "com.apple.dock", "tilesize", "-int", "48"}, ports.CommandResult{ExitCode: 0})

	units := New(runner, testCatalog()).Phase().Units()
	require.NoError(t, units[0].Apply(context.Background()))
	require.NoError(t, units[1].Apply(context.Background()))
}

func TestRestartUI_KillsDockAndFinder(t *testing.T) {
	runner := mocks.NewCommandRunner()
	// killall exits 1 when the process is not running; that is fine.
	runner.AddResult("killall", []string{"Dock"}, ports.CommandResult{ExitCode: 0})
	runner.AddResult("killall", []string{"Finder"}, ports.CommandResult{ExitCode: 1})

	restart := New(runner, testCatalog()).Phase().Units()[2]
	require.NoError(t, restart.Apply(context.Background()))
	assert.Equal(t, 1, runner.CallCount("killall", "Dock"))
	assert.Equal(t, 1, runner.CallCount("killall", "Finder"))
}
