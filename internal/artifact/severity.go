// Package artifact checks that phases produced their required evidence
// files and extracts severity findings from them.
package artifact

import "strings"

// Severity classifies a finding extracted from an artifact.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// Blocking reports whether a finding of this severity blocks the gate.
// MEDIUM and LOW findings are advisory only.
func (s Severity) Blocking() bool {
	return s == SeverityCritical || s == SeverityHigh
}

// ParseSeverity normalizes a severity token. The bool is false for
// anything outside the four recognized levels.
func ParseSeverity(token string) (Severity, bool) {
	switch Severity(strings.ToUpper(strings.TrimSpace(token))) {
	case SeverityCritical:
		return SeverityCritical, true
	case SeverityHigh:
		return SeverityHigh, true
	case SeverityMedium:
		return SeverityMedium, true
	case SeverityLow:
		return SeverityLow, true
	}
	return "", false
}

// Finding is one severity hit extracted from an artifact. ID is optional;
// heterogeneous producers cannot be relied on for identifiers.
type Finding struct {
	Severity Severity `json:"severity"`
	Source   string   `json:"source"`
	ID       string   `json:"id,omitempty"`
}
