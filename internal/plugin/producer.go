// Package plugin populates the artifact files a phase requires, in one of
// two interchangeable modes. Production is best-effort: the artifact gate
// that runs afterwards is the authoritative enforcement point, which lets
// an operator re-run the gate after fixing an artifact by hand without
// re-invoking producers.
package plugin

import (
	"context"
	"fmt"

	"github.com/spectools/phasegate/internal/phase"
	"github.com/spectools/phasegate/internal/validator"
	"github.com/spectools/phasegate/internal/workspace"
)

// Mode names for producer selection.
const (
	ModeExternalAgent = "external-agent"
	ModeLocalScript   = "local-script"
)

// Producer populates the required artifacts for a phase.
type Producer interface {
	Name() string
	// Produce writes or refreshes the artifacts for the applicable
	// requirements. Failures are reported per path, never as a hard error.
	Produce(ctx context.Context, p phase.Phase, reqs []phase.Requirement, ws workspace.Snapshot) []ProduceResult
}

// ProduceResult describes what happened to one artifact path.
type ProduceResult struct {
	Path    string
	Written bool   // the artifact file exists after production
	Note    string // "left for external agent", scanner notes
	Err     error
}

// ForMode returns the producer for the configured mode. The mode is
// selected once per invocation and never mixed within a run.
func ForMode(mode, root string, cmd validator.CommandRunner) (Producer, error) {
	switch mode {
	case "", ModeLocalScript:
		return NewLocalScript(root, cmd), nil
	case ModeExternalAgent:
		return NewAgentStub(root), nil
	}
	return nil, fmt.Errorf("unknown plugin mode %q (valid: %s, %s)", mode, ModeExternalAgent, ModeLocalScript)
}
