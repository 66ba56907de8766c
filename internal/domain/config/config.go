package config

import (
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/felixgeelhaar/macsetup/internal/ports"
)

// DefaultPath is the well-known location of the optional user
// configuration.
const DefaultPath = "~/.macsetup.toml"

// Identity holds who the machine belongs to. Unset fields become
// manual follow-ups in the final report instead of errors.
type Identity struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

// Secrets holds tokens consumed by installers. Never logged.
type Secrets struct {
	GithubToken string `toml:"github_token"`
}

// Features holds coarse feature switches that change what gets
// installed rather than whether a phase runs.
type Features struct {
	GPGSign     bool   `toml:"gpg_sign"`
	OllamaModel string `toml:"ollama_model"`
}

// Config is the user-editable run configuration. It is loaded once at
// process start and never mutated during the run.
type Config struct {
	Identity Identity        `toml:"identity"`
	Secrets  Secrets         `toml:"secrets"`
	Features Features        `toml:"features"`
	Toggles  map[string]bool `toml:"toggles"`
}

// Default returns the all-defaults configuration used when no file
// exists: every unit enabled, no identity, no secrets.
func Default() *Config {
	return &Config{
		Features: Features{
			OllamaModel: "llama3.2",
		},
	}
}

// Load reads the configuration from path. A missing file is valid and
// yields Default(). ~ is expanded.
func Load(path string) (*Config, error) {
	expanded := ports.ExpandPath(path)

	data, err := os.ReadFile(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, NewParseError(expanded, err)
	}
	if err := cfg.validate(expanded); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects values that would silently misbehave mid-run. The
// file is optional and most fields default sensibly, so the rules are
// few.
func (c *Config) validate(path string) error {
	if email := c.Identity.Email; email != "" && !strings.Contains(email, "@") {
		return NewInvalidError(path, "identity.email is not an email address")
	}
	if model := c.Features.OllamaModel; strings.ContainsAny(model, " \t") {
		return NewInvalidError(path, "features.ollama_model contains whitespace")
	}
	return nil
}
