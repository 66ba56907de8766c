package report

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/felixgeelhaar/macsetup/internal/ports"
)

// CommandCheck passes when an executable resolves on the search path.
func CommandCheck(lp ports.LookPather, name string) Check {
	return Check{
		Name: name + " on PATH",
		Probe: func(_ context.Context) (Status, string) {
			if path, ok := lp.LookPath(name); ok {
				return StatusPass, path
			}
			return StatusFail, "not found"
		},
	}
}

// PathCheck passes when a file or directory exists. ~ is expanded.
func PathCheck(fs ports.FileSystem, label, path string) Check {
	return Check{
		Name: label,
		Probe: func(_ context.Context) (Status, string) {
			if fs.Exists(ports.ExpandPath(path)) {
				return StatusPass, path
			}
			return StatusFail, path + " missing"
		},
	}
}

// AppCheck passes when an application bundle is installed.
func AppCheck(fs ports.FileSystem, appName string) Check {
	return Check{
		Name: appName + " installed",
		Probe: func(_ context.Context) (Status, string) {
			path := "/Applications/" + appName + ".app"
			if fs.Exists(path) {
				return StatusPass, path
			}
			return StatusFail, path + " missing"
		},
	}
}

// DaemonCheck warns (not fails) when a service command does not
// respond: daemons are expected to sometimes be stopped.
func DaemonCheck(runner ports.CommandRunner, label, command string, args ...string) Check {
	return Check{
		Name: label,
		Probe: func(ctx context.Context) (Status, string) {
			result, err := runner.Run(ctx, command, args...)
			if err != nil || !result.Success() {
				return StatusWarn, "not responding"
			}
			return StatusPass, "running"
		},
	}
}

// ManualCheck always reports a manual follow-up. Used for state the
// run cannot provision, like identity left unset in the configuration.
func ManualCheck(name, detail string) Check {
	return Check{
		Name: name,
		Probe: func(_ context.Context) (Status, string) {
			return StatusManual, detail
		},
	}
}

var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// MinVersionCheck passes when a tool reports at least the given
// version. The first dotted number in the command output is taken as
// the version.
func MinVersionCheck(runner ports.CommandRunner, label, min, command string, args ...string) Check {
	return Check{
		Name: label,
		Probe: func(ctx context.Context) (Status, string) {
			result, err := runner.Run(ctx, command, args...)
			if err != nil || !result.Success() {
				return StatusFail, command + " not runnable"
			}

			got := versionPattern.FindString(result.Stdout)
			if got == "" {
				got = versionPattern.FindString(result.Stderr)
			}
			if got == "" {
				return StatusWarn, "version not recognized in output"
			}

			if semver.Compare(canonical(got), canonical(min)) < 0 {
				return StatusFail, got + " < " + min
			}
			return StatusPass, got
		},
	}
}

func canonical(v string) string {
	return "v" + strings.TrimPrefix(v, "v")
}
