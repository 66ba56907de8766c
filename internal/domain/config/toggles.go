package config

import (
	"context"
	"sort"

	"github.com/felixgeelhaar/macsetup/internal/ports"
)

// Known toggle keys. Each controls one group of installable units;
// everything defaults to enabled.
const (
	ToggleCasks    = "casks"
	ToggleShell    = "shell"
	ToggleGit      = "git"
	ToggleVSCode   = "vscode"
	ToggleDocker   = "docker"
	ToggleRuntimes = "runtimes"
	ToggleOllama   = "ollama"
	ToggleAndroid  = "android"
	ToggleIOS      = "ios"
	ToggleDefaults = "macos-defaults"
)

// KnownToggles returns every recognized toggle key, sorted.
func KnownToggles() []string {
	keys := []string{
		ToggleCasks,
		ToggleShell,
		ToggleGit,
		ToggleVSCode,
		ToggleDocker,
		ToggleRuntimes,
		ToggleOllama,
		ToggleAndroid,
		ToggleIOS,
		ToggleDefaults,
	}
	sort.Strings(keys)
	return keys
}

// Toggles is the effective enable/disable value per installable-unit
// group after merging user overrides with the built-in defaults.
type Toggles struct {
	values map[string]bool
}

// ResolveToggles merges overrides with the default (everything
// enabled). Unrecognized override keys are logged and ignored, never
// fatal.
func ResolveToggles(ctx context.Context, overrides map[string]bool, logger ports.Logger) Toggles {
	known := make(map[string]bool, len(KnownToggles()))
	for _, key := range KnownToggles() {
		known[key] = true
	}

	values := make(map[string]bool, len(known))
	for key := range known {
		values[key] = true
	}

	for key, value := range overrides {
		if !known[key] {
			logger.Warn(ctx, "ignoring unknown toggle", ports.F("key", key))
			continue
		}
		values[key] = value
	}

	return Toggles{values: values}
}

// Enabled reports whether a toggle group is on. Unknown keys report
// true: the default is to install everything.
func (t Toggles) Enabled(key string) bool {
	if t.values == nil {
		return true
	}
	value, ok := t.values[key]
	if !ok {
		return true
	}
	return value
}

// Disabled returns the keys the user switched off, sorted. The final
// report discloses them as intentionally not provisioned.
func (t Toggles) Disabled() []string {
	var off []string
	for key, value := range t.values {
		if !value {
			off = append(off, key)
		}
	}
	sort.Strings(off)
	return off
}
