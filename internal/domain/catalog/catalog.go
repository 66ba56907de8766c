// Package catalog holds the static data set of what gets installed:
// packages, casks, extensions, runtimes, and macOS settings. The
// catalog is configuration, not logic; providers turn its entries into
// installable units.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

// Formula is a Homebrew formula entry.
type Formula struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args,omitempty"`
}

// Cask is a Homebrew cask entry. App names the installed bundle under
// /Applications, used by idempotency and validation probes.
type Cask struct {
	Name string `yaml:"name"`
	App  string `yaml:"app"`
}

// Runtime is a language toolchain managed through mise.
type Runtime struct {
	Tool    string `yaml:"tool"`
	Version string `yaml:"version"`
}

// Setting is one macOS defaults-write entry.
type Setting struct {
	Domain string      `yaml:"domain"`
	Key    string      `yaml:"key"`
	Type   string      `yaml:"type"`
	Value  interface{} `yaml:"value"`
}

// Catalog is the full installable data set.
type Catalog struct {
	Taps             []string  `yaml:"taps"`
	Formulae         []Formula `yaml:"formulae"`
	Casks            []Cask    `yaml:"casks"`
	VSCodeExtensions []string  `yaml:"vscode_extensions"`
	Runtimes         []Runtime `yaml:"runtimes"`
	AndroidPackages  []string  `yaml:"android_packages"`
	Settings         []Setting `yaml:"settings"`
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &c, nil
}

// Load returns the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(embedded)
}
