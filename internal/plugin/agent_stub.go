package plugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spectools/phasegate/internal/phase"
	"github.com/spectools/phasegate/internal/workspace"
)

// AgentStub is the external-agent mode producer. It performs no analysis
// itself: it writes a templated placeholder for each missing artifact and
// expects an interactive collaborator to fill in real content before the
// gate is run again. Existing artifacts are never overwritten — they may
// already hold the agent's work.
type AgentStub struct {
	root string
	now  func() time.Time
}

// NewAgentStub creates the external-agent producer for a workspace root.
func NewAgentStub(root string) *AgentStub {
	return &AgentStub{root: root, now: time.Now}
}

func (a *AgentStub) Name() string { return ModeExternalAgent }

func (a *AgentStub) Produce(ctx context.Context, p phase.Phase, reqs []phase.Requirement, ws workspace.Snapshot) []ProduceResult {
	var results []ProduceResult
	for _, req := range reqs {
		if !req.Required(ws) {
			continue
		}
		path := filepath.Join(a.root, req.Path)
		if _, err := os.Stat(path); err == nil {
			results = append(results, ProduceResult{Path: req.Path, Written: true, Note: "exists, left for external agent"})
			continue
		}
		body := a.template(p, req.Path)
		if err := writeAtomic(path, []byte(body)); err != nil {
			results = append(results, ProduceResult{Path: req.Path, Err: err})
			continue
		}
		results = append(results, ProduceResult{Path: req.Path, Written: true, Note: "placeholder written"})
	}
	return results
}

func (a *AgentStub) template(p phase.Phase, relPath string) string {
	return fmt.Sprintf(`# %s — %s

> Placeholder generated %s. An external analysis agent is expected to
> replace this section with real findings before the gate is re-run.

## Findings

_(pending)_
`, p, filepath.Base(relPath), a.now().UTC().Format(time.RFC3339))
}
