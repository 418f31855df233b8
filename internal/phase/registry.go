package phase

import (
	"github.com/spectools/phasegate/internal/workspace"
)

// Requirement names an artifact a phase must produce. Condition, when set,
// is evaluated against the workspace snapshot to decide whether the
// artifact is mandatory for this run; a nil Condition means the artifact
// is always mandatory.
type Requirement struct {
	Path      string
	Condition func(workspace.Snapshot) bool
	Reason    string // why the condition gates the requirement, for operator messages
}

// Required reports whether the requirement applies for the given snapshot.
func (r Requirement) Required(ws workspace.Snapshot) bool {
	if r.Condition == nil {
		return true
	}
	return r.Condition(ws)
}

// requirements is the fixed artifact table. Paths are relative to the
// workspace root and must stay stable for downstream tooling.
var requirements = map[Phase][]Requirement{
	Spec: {
		{Path: "reports/security/spec-findings.md"},
	},
	Plan: {
		{Path: "reports/security/plan-scan.md"},
	},
	Tasks: {
		{
			Path:      "reports/tests/tasks-unit-help.md",
			Condition: func(ws workspace.Snapshot) bool { return ws.Python },
			Reason:    "required only when a Python manifest is present",
		},
	},
	Implement: {
		{Path: "reports/security/implement-scan.md"},
	},
	Analyze: {
		{Path: "reports/security/analyze-deltas.md"},
		{Path: "reports/compliance/analyze-compliance.md"},
	},
	Review: nil,
	Deploy: nil,
}

// validatorPhases marks which phases run the full per-ecosystem tool
// chains by default.
var validatorPhases = map[Phase]bool{
	Implement: true,
	Review:    true,
}

// RequirementsFor returns the ordered artifact requirements for a phase.
// The returned slice is a copy; the registry itself is immutable.
func RequirementsFor(p Phase) []Requirement {
	reqs := requirements[p]
	out := make([]Requirement, len(reqs))
	copy(out, reqs)
	return out
}

// ValidatesCode reports whether the phase runs validator chains by default.
func ValidatesCode(p Phase) bool {
	return validatorPhases[p]
}
