// Package config loads the optional gate.yaml that tunes the gate:
// plugin mode, document paths, per-step timeout, and validator chain
// overrides. Everything has a built-in default; the file is optional.
package config

// Config is the top-level structure parsed from gate.yaml.
type Config struct {
	Gate Gate `yaml:"gate"`
}

// Gate holds the tunable knobs of a phase check.
type Gate struct {
	PluginMode      string                 `yaml:"plugin_mode"`
	PlanPath        string                 `yaml:"plan_path"`
	LedgerPath      string                 `yaml:"ledger_path"`
	StepTimeout     string                 `yaml:"step_timeout"`
	ValidatorPhases []string               `yaml:"validator_phases"`
	Chains          map[string][]ChainStep `yaml:"chains"`
}

// ChainStep overrides one step of an ecosystem's validator chain.
type ChainStep struct {
	Tool    string `yaml:"tool"`
	Command string `yaml:"command"`
	Parser  string `yaml:"parser"`
}
