package orchestrator

import (
	"github.com/spectools/phasegate/internal/artifact"
	"github.com/spectools/phasegate/internal/phase"
	"github.com/spectools/phasegate/internal/validator"
	"github.com/spectools/phasegate/internal/workspace"
)

// FailureClass partitions gate failures. Classes form a lattice: a more
// severe class must never be masked by a less severe one, so the final
// exit code is reduced by most-severe-wins.
type FailureClass string

const (
	ClassMissingArtifact      FailureClass = "missing_artifact"
	ClassUnmitigatedFinding   FailureClass = "unmitigated_finding"
	ClassInvalidMitigationDoc FailureClass = "invalid_mitigation_doc"
	ClassValidatorFailure     FailureClass = "validator_failure"
)

// classExit maps each class to its contractual exit code. The numbering
// doubles as the severity order: lower code, more severe.
var classExit = map[FailureClass]int{
	ClassMissingArtifact:      1,
	ClassUnmitigatedFinding:   2,
	ClassInvalidMitigationDoc: 3,
	ClassValidatorFailure:     4,
}

// Failure is one concrete gate failure with enough context to act on.
type Failure struct {
	Class    FailureClass `json:"class"`
	Path     string       `json:"path,omitempty"`
	Tool     string       `json:"tool,omitempty"`
	Severity string       `json:"severity,omitempty"`
	ExitCode int          `json:"exit_code,omitempty"`
	Detail   string       `json:"detail"`
}

// Outcome is the terminal result of one phase-check run. It is built up
// immutably stage by stage; nothing rewrites an earlier stage's entries.
type Outcome struct {
	Phase      phase.Phase             `json:"phase"`
	Mode       string                  `json:"mode"`
	Workspace  workspace.Snapshot      `json:"workspace"`
	Artifacts  artifact.Report         `json:"artifacts"`
	Advisories []artifact.Finding      `json:"advisories,omitempty"`
	Chains     []validator.ChainResult `json:"chains,omitempty"`
	Failures   []Failure               `json:"failures"`
}

func (o *Outcome) addFailure(f Failure) {
	o.Failures = append(o.Failures, f)
}

// Passed reports whether the gate passed outright.
func (o *Outcome) Passed() bool {
	return len(o.Failures) == 0
}

// ExitCode reduces the failure set to the process exit code: zero on
// success, otherwise the code of the most severe class present.
func (o *Outcome) ExitCode() int {
	code := 0
	for _, f := range o.Failures {
		c := classExit[f.Class]
		if code == 0 || c < code {
			code = c
		}
	}
	return code
}
