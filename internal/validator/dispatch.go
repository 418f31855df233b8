package validator

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spectools/phasegate/internal/phase"
	"github.com/spectools/phasegate/internal/workspace"
)

// StepStatus classifies the outcome of one chain step.
type StepStatus string

const (
	StepPassed StepStatus = "passed"
	StepFailed StepStatus = "failed"
	// StepToolUnavailable means the tool is not installed. It is reported
	// as its own condition, never silently skipped, so operators cannot
	// mistake an environment gap for a pass.
	StepToolUnavailable StepStatus = "tool_unavailable"
	StepTimeout         StepStatus = "timeout"
)

// StepResult records one tool invocation within a chain.
type StepResult struct {
	Tool       string     `json:"tool"`
	Command    string     `json:"command"`
	Status     StepStatus `json:"status"`
	ExitCode   int        `json:"exit_code"`
	DurationMs int        `json:"duration_ms"`
	Summary    string     `json:"summary"`
	OutputRef  string     `json:"output_ref,omitempty"`
}

// ChainResult is the outcome of one ecosystem's chain. Steps past the
// first failure are absent: chains are fail-fast internally.
type ChainResult struct {
	Ecosystem string       `json:"ecosystem"`
	Passed    bool         `json:"passed"`
	Steps     []StepResult `json:"steps"`
}

// Dispatcher runs validator chains for the detected ecosystems.
type Dispatcher struct {
	root        string
	cmd         CommandRunner
	lookPath    LookPathFunc
	parsers     map[string]Parser
	chains      []Chain
	stepTimeout time.Duration
}

// NewDispatcher creates a Dispatcher for the given workspace root using
// the built-in chains and a 2-minute per-step timeout.
func NewDispatcher(root string, cmd CommandRunner) *Dispatcher {
	return &Dispatcher{
		root:        root,
		cmd:         cmd,
		lookPath:    exec.LookPath,
		parsers:     defaultParsers(),
		chains:      DefaultChains(),
		stepTimeout: 2 * time.Minute,
	}
}

// SetChains replaces the built-in chains (gate.yaml overrides).
func (d *Dispatcher) SetChains(chains []Chain) { d.chains = chains }

// SetStepTimeout changes the per-step subprocess timeout.
func (d *Dispatcher) SetStepTimeout(timeout time.Duration) {
	if timeout > 0 {
		d.stepTimeout = timeout
	}
}

// SetLookPath substitutes the tool-availability probe, for tests.
func (d *Dispatcher) SetLookPath(fn LookPathFunc) { d.lookPath = fn }

// Chains returns the chains that would run for the given snapshot, in
// detection order.
func (d *Dispatcher) Chains(ws workspace.Snapshot) []Chain {
	var selected []Chain
	for _, eco := range ws.Ecosystems() {
		for _, c := range d.chains {
			if c.Ecosystem == eco {
				selected = append(selected, c)
			}
		}
	}
	return selected
}

// Dispatch runs the chain for every detected ecosystem. Chains run
// concurrently — they share no mutable state — and each is fail-fast
// internally, so one invocation surfaces the complete cross-language
// failure picture.
func (d *Dispatcher) Dispatch(ctx context.Context, p phase.Phase, ws workspace.Snapshot) []ChainResult {
	selected := d.Chains(ws)
	results := make([]ChainResult, len(selected))

	var g errgroup.Group
	for i, chain := range selected {
		i, chain := i, chain
		g.Go(func() error {
			results[i] = d.runChain(ctx, p, chain)
			return nil
		})
	}
	_ = g.Wait() // chain goroutines never return errors
	return results
}

func (d *Dispatcher) runChain(ctx context.Context, p phase.Phase, chain Chain) ChainResult {
	result := ChainResult{Ecosystem: chain.Ecosystem, Passed: true}

	for _, step := range chain.Steps {
		sr := d.runStep(ctx, p, chain.Ecosystem, step)
		result.Steps = append(result.Steps, sr)
		if sr.Status != StepPassed {
			result.Passed = false
			break
		}
	}
	return result
}

func (d *Dispatcher) runStep(ctx context.Context, p phase.Phase, ecosystem string, step Step) StepResult {
	sr := StepResult{Tool: step.Tool, Command: step.Command}

	prog := program(step.Command)
	if _, err := d.lookPath(prog); err != nil {
		sr.Status = StepToolUnavailable
		sr.ExitCode = -1
		sr.Summary = fmt.Sprintf("%s not installed", prog)
		return sr
	}

	stepCtx, cancel := context.WithTimeout(ctx, d.stepTimeout)
	defer cancel()

	start := time.Now()
	stdout, stderr, exitCode, err := d.cmd.Run(stepCtx, d.root, step.Command)
	sr.DurationMs = int(time.Since(start).Milliseconds())
	sr.OutputRef = d.saveOutput(p, ecosystem, step.Tool, stdout, stderr)

	if err != nil {
		if stepCtx.Err() == context.DeadlineExceeded {
			sr.Status = StepTimeout
			sr.ExitCode = -1
			sr.Summary = fmt.Sprintf("timeout after %s", d.stepTimeout)
			return sr
		}
		sr.Status = StepFailed
		sr.ExitCode = -1
		sr.Summary = fmt.Sprintf("could not run: %v", err)
		return sr
	}

	parser, ok := d.parsers[step.Parser]
	if !ok {
		parser = d.parsers["generic"]
	}
	parsed := parser.Parse(stdout, stderr, exitCode)

	sr.ExitCode = exitCode
	sr.Summary = parsed.Summary
	if exitCode == 0 && parsed.Passed {
		sr.Status = StepPassed
	} else {
		sr.Status = StepFailed
	}
	return sr
}

// saveOutput writes the step's raw output under reports/validators/ and
// returns the workspace-relative reference, or "" on any write problem.
// Retention is best-effort; the gate decision never depends on it.
func (d *Dispatcher) saveOutput(p phase.Phase, ecosystem, tool, stdout, stderr string) string {
	rel := filepath.Join("reports", "validators", string(p), ecosystem, tool+".log")
	dir := filepath.Join(d.root, filepath.Dir(rel))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ""
	}
	body := stdout
	if stderr != "" {
		body += "\n--- stderr ---\n" + stderr
	}
	if err := os.WriteFile(filepath.Join(d.root, rel), []byte(body), 0o644); err != nil {
		return ""
	}
	return rel
}
