package mobile

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
		AndroidPackages: []string{"platform-tools", "platforms;android-35"},
	}
}

func TestPhase_Toggles(t *testing.T) {
	runner := mocks.NewCommandRunner()

	full := New(runner, testCatalog(), true, true).Phase()
	require.Len(t, full.Units(), 3)

	androidOnly := New(runner, testCatalog(), true, false).Phase()
	require.Len(t, androidOnly.Units(), 2)

	iosOnly := New(runner, testCatalog(), false, true).Phase()
	require.Len(t, iosOnly.Units(), 1)
	assert.Equal(t, "mobile:ios-simulator", iosOnly.Units()[0].ID().String())

	neither := New(runner, testCatalog(), false, false).Phase()
	assert.Empty(t, neither.Units())
}

func TestAndroidPackage_IDSanitized(t *testing.T) {
	units := New(mocks.NewCommandRunner(), testCatalog(), true, false).Phase().Units()
	assert.Equal(t, "mobile:android:platforms/android-35", units[1].ID().String())
}

func TestAndroidPackage_CheckAgainstInstalledList(t *testing.T) {
	runner := mocks.NewCommandRunner()
	runner.AddResult("sdkmanager", []string{"--list_installed"}, ports.CommandResult{
		ExitCode: 0,
		Stdout: `Installed packages:
  Path            Version  Description
  -------         -------  -------
  platform-tools  35.0.2   Android SDK Platform-Tools
`,
	})

	units := New(runner, testCatalog(), true, false).Phase().Units()

	status, err := units[0].Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)

	status, err = units[1].Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)
}

func TestAndroidPackage_ApplyInstallsExactPath(t *testing.T) {
	runner := mocks.NewCommandRunner()
	runner.AddResult("sdkmanager", []string{"--install", "platforms;android-35"}, ports.CommandResult{ExitCode: 0})

	units := New(runner, testCatalog(), true, false).Phase().Units()
	require.NoError(t, units[1].Apply(context.Background()))
	assert.True(t, units[1].IsRetryable())
}

func TestIOSSimulator_SatisfiedWhenRuntimeListed(t *testing.T) {
	runner := mocks.NewCommandRunner()
	runner.AddResult("xcrun", []string{"simctl", "list", "runtimes"}, ports.CommandResult{
		ExitCode: 0,
		Stdout:   "== Runtimes ==\niOS 18.2 (18.2 - 22C150) - com.apple.CoreSimulator.SimRuntime.iOS-18-2\n",
	})

	unit := New(runner, testCatalog(), false, true).Phase().Units()[0]
	status, err := unit.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)
}

func TestIOSSimulator_ApplyDownloadsPlatform(t *testing.T) {
	runner := mocks.NewCommandRunner()
	runner.AddResult("xcodebuild", []string{"-downloadPlatform", "iOS"}, ports.CommandResult{ExitCode: 0})

	unit := New(runner, testCatalog(), false, true).Phase().Units()[0]
	require.NoError(t, unit.Apply(context.Background()))
}
