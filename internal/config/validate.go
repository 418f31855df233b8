package config

import "fmt"

// ValidationError represents a single validation issue with a config.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// recognizedModes is the set of valid plugin-invoker modes.
var recognizedModes = map[string]bool{
	"external-agent": true,
	"local-script":   true,
}

// recognizedParsers is the set of valid parser names for chain steps.
var recognizedParsers = map[string]bool{
	"prettier":   true,
	"eslint":     true,
	"typescript": true,
	"vitest":     true,
	"cargo":      true,
	"black":      true,
	"mypy":       true,
	"pytest":     true,
	"generic":    true,
}

// recognizedPhases mirrors the fixed lifecycle; kept as plain strings so
// config validation stays free of engine imports.
var recognizedPhases = map[string]bool{
	"spec": true, "plan": true, "tasks": true, "implement": true,
	"analyze": true, "review": true, "deploy": true,
}

// recognizedEcosystems limits chain overrides to dispatchable ecosystems.
var recognizedEcosystems = map[string]bool{
	"node": true, "rust": true, "python": true,
}

// Validate checks a Config for structural and semantic errors. It returns
// a slice of all validation errors found (empty if valid).
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError
	g := cfg.Gate

	if !recognizedModes[g.PluginMode] {
		errs = append(errs, ValidationError{
			Field:   "gate.plugin_mode",
			Message: fmt.Sprintf("unrecognized mode %q", g.PluginMode),
		})
	}

	for i, name := range g.ValidatorPhases {
		if !recognizedPhases[name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("gate.validator_phases[%d]", i),
				Message: fmt.Sprintf("unknown phase %q", name),
			})
		}
	}

	for eco, steps := range g.Chains {
		if !recognizedEcosystems[eco] {
			errs = append(errs, ValidationError{
				Field:   "gate.chains",
				Message: fmt.Sprintf("unrecognized ecosystem %q", eco),
			})
		}
		for i, step := range steps {
			prefix := fmt.Sprintf("gate.chains.%s[%d]", eco, i)
			if step.Tool == "" {
				errs = append(errs, ValidationError{Field: prefix + ".tool", Message: "is required"})
			}
			if step.Command == "" {
				errs = append(errs, ValidationError{Field: prefix + ".command", Message: "is required"})
			}
			if step.Parser != "" && !recognizedParsers[step.Parser] {
				errs = append(errs, ValidationError{
					Field:   prefix + ".parser",
					Message: fmt.Sprintf("unrecognized parser %q", step.Parser),
				})
			}
		}
	}

	return errs
}
