package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// PluginModeEnv is the environment variable selecting the plugin-invoker
// mode. It overrides gate.yaml.
const PluginModeEnv = "PHASEGATE_PLUGIN_MODE"

// Load reads and parses a gate configuration from the given YAML file,
// then applies defaults for anything the file leaves unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault searches for a gate config in standard locations and loads
// the first one found. Search order: ./gate.yaml, ~/.phasegate/config.yaml.
// Unlike a missing key, a missing file is not an error: the built-in
// defaults are a complete configuration.
func LoadDefault() (*Config, error) {
	candidates := []string{"gate.yaml"}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, ".phasegate", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	cfg := &Config{}
	applyDefaults(cfg)
	return cfg, nil
}

// applyDefaults fills unset fields with built-in values and lets the
// environment override the plugin mode.
func applyDefaults(cfg *Config) {
	g := &cfg.Gate

	if mode := os.Getenv(PluginModeEnv); mode != "" {
		g.PluginMode = mode
	}
	if g.PluginMode == "" {
		g.PluginMode = "local-script"
	}
	if g.PlanPath == "" {
		g.PlanPath = "plans/plan.md"
	}
	if g.LedgerPath == "" {
		g.LedgerPath = "DECISIONS.md"
	}
	if g.StepTimeout == "" {
		g.StepTimeout = "2m"
	}
	if len(g.ValidatorPhases) == 0 {
		g.ValidatorPhases = []string{"implement", "review"}
	}
}

// StepTimeoutDuration parses the configured per-step timeout, falling
// back to 2 minutes on a malformed value.
func (g Gate) StepTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(g.StepTimeout)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}

// PhaseValidates reports whether the named phase runs validator chains
// under this configuration.
func (g Gate) PhaseValidates(name string) bool {
	for _, p := range g.ValidatorPhases {
		if p == name {
			return true
		}
	}
	return false
}
