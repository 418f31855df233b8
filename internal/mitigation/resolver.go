// Package mitigation decides whether blocking findings are covered by the
// repository's mitigation plan or its decision ledger.
package mitigation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spectools/phasegate/internal/artifact"
)

// Reason classifies why a blocking finding is unresolved. The distinction
// matters for exit codes: an uncovered finding is an unmitigated-finding
// failure, while a document that tries but fails its structural check is
// an invalid-document failure.
type Reason string

const (
	// ReasonUncovered means neither document addresses the finding at all.
	ReasonUncovered Reason = "uncovered"
	// ReasonPlanIncomplete means the plan has a mitigation section but is
	// missing owner or timeline detail.
	ReasonPlanIncomplete Reason = "plan_incomplete"
	// ReasonLedgerIncomplete means the ledger has a decision record that
	// fails its structural-validity check.
	ReasonLedgerIncomplete Reason = "ledger_incomplete"
)

// Unresolved is a blocking finding with no valid mitigation or waiver.
type Unresolved struct {
	Finding artifact.Finding `json:"finding"`
	Reason  Reason           `json:"reason"`
}

func (u Unresolved) Error() string {
	switch u.Reason {
	case ReasonPlanIncomplete:
		return fmt.Sprintf("%s finding in %s: mitigation section present but missing owner/timeline detail", u.Finding.Severity, u.Finding.Source)
	case ReasonLedgerIncomplete:
		return fmt.Sprintf("%s finding in %s: decision record present but structurally invalid", u.Finding.Severity, u.Finding.Source)
	}
	return fmt.Sprintf("unmitigated %s finding in %s", u.Finding.Severity, u.Finding.Source)
}

// Structural markers in the mitigation plan. The match is deliberately
// coarse: severity reports from heterogeneous producers cannot be relied
// on for structured IDs, so the plan is checked for a recognized section
// plus owner/timeline detail rather than per-finding entries.
var (
	planSectionRe = regexp.MustCompile(`(?im)^#{1,6}\s*(security mitigations|mitigations|risk mitigation)\b`)
	ownerTokenRe  = regexp.MustCompile(`(?i)\bowner\b`)
	timelineRe    = regexp.MustCompile(`(?i)\b(timeline|target date|due date|eta)\b`)
)

// Structural markers for a decision record in the waiver ledger.
var (
	decisionMarkerRe = regexp.MustCompile(`(?im)^(#{1,6}\s*(adr|decision)\b|decision\s*:)`)
	statusLineRe     = regexp.MustCompile(`(?im)^\s*(\*\*)?status(\*\*)?\s*:\s*(.+)$`)
	acceptedStatusRe = regexp.MustCompile(`(?i)\b(accepted|approved|waived)\b`)
)

// Resolve checks each blocking finding against the mitigation plan and the
// waiver ledger. MEDIUM/LOW findings must be filtered out by the caller;
// any passed in are ignored. Absent documents are passed as empty strings.
func Resolve(findings []artifact.Finding, planText, ledgerText string) []Unresolved {
	planSection := planSectionRe.MatchString(planText)
	planDetail := ownerTokenRe.MatchString(planText) && timelineRe.MatchString(planText)
	planResolves := planSection && planDetail

	ledgerRecord := decisionMarkerRe.MatchString(ledgerText)
	ledgerResolves := ledgerRecord && ledgerStatusValid(ledgerText)

	var unresolved []Unresolved
	for _, f := range findings {
		if !f.Severity.Blocking() {
			continue
		}
		if f.ID != "" && (containsFold(planText, f.ID) || containsFold(ledgerText, f.ID)) {
			continue
		}
		if planResolves || ledgerResolves {
			continue
		}
		reason := ReasonUncovered
		if planSection {
			reason = ReasonPlanIncomplete
		} else if ledgerRecord {
			reason = ReasonLedgerIncomplete
		}
		unresolved = append(unresolved, Unresolved{Finding: f, Reason: reason})
	}
	return unresolved
}

func ledgerStatusValid(ledgerText string) bool {
	for _, m := range statusLineRe.FindAllStringSubmatch(ledgerText, -1) {
		if acceptedStatusRe.MatchString(m[3]) {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
