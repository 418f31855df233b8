package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spectools/phasegate/internal/phase"
	"github.com/spectools/phasegate/internal/workspace"
)

// MissingArtifactError reports a required artifact that does not exist.
type MissingArtifactError struct {
	Path  string
	Phase phase.Phase
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("phase %s: required artifact %s is missing", e.Phase, e.Path)
}

// Report is the outcome of an artifact gate check. Paths are relative to
// the workspace root, in requirement order.
type Report struct {
	Missing []string `json:"missing"`
	Present []string `json:"present"`
	Skipped []string `json:"skipped,omitempty"` // requirements whose condition did not hold
}

// Gate confirms required artifact files exist under a workspace root.
type Gate struct {
	root string
}

// NewGate creates a Gate rooted at the given directory.
func NewGate(root string) *Gate {
	return &Gate{root: root}
}

// Check evaluates every requirement against the snapshot and collects all
// missing artifacts. It never aborts early: an operator fixing a failed
// gate needs the complete deficiency list from one run.
func (g *Gate) Check(p phase.Phase, reqs []phase.Requirement, ws workspace.Snapshot) Report {
	report := Report{Missing: []string{}, Present: []string{}}
	for _, req := range reqs {
		if !req.Required(ws) {
			report.Skipped = append(report.Skipped, req.Path)
			continue
		}
		if _, err := os.Stat(filepath.Join(g.root, req.Path)); err != nil {
			report.Missing = append(report.Missing, req.Path)
			continue
		}
		report.Present = append(report.Present, req.Path)
	}
	return report
}

// Errors returns one MissingArtifactError per missing path.
func (r Report) Errors(p phase.Phase) []error {
	var errs []error
	for _, path := range r.Missing {
		errs = append(errs, &MissingArtifactError{Path: path, Phase: p})
	}
	return errs
}
