// Package orchestrator drives one phase-check run: invoke producers,
// gate artifacts, scan severities, resolve mitigations, dispatch
// validators, aggregate. Transitions are strictly sequential; there are
// no retries — remediation is always a human re-running the whole check.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spectools/phasegate/internal/artifact"
	"github.com/spectools/phasegate/internal/config"
	"github.com/spectools/phasegate/internal/mitigation"
	"github.com/spectools/phasegate/internal/phase"
	"github.com/spectools/phasegate/internal/plugin"
	"github.com/spectools/phasegate/internal/validator"
	"github.com/spectools/phasegate/internal/workspace"
)

// State names one stage of a phase-check run.
type State string

const (
	StateIdle       State = "idle"
	StateInvoking   State = "invoking"
	StateGating     State = "gating"
	StateScanning   State = "scanning"
	StateResolving  State = "resolving"
	StateValidating State = "validating"
	StateAggregated State = "aggregated"
)

// stateOrder fixes the only legal transition sequence.
var stateOrder = []State{
	StateIdle, StateInvoking, StateGating, StateScanning,
	StateResolving, StateValidating, StateAggregated,
}

// Orchestrator composes one phase-check run from the gate components.
type Orchestrator struct {
	root       string
	cfg        config.Gate
	producer   plugin.Producer
	gate       *artifact.Gate
	scanner    *artifact.Scanner
	dispatcher *validator.Dispatcher
	warn       io.Writer
	state      State
}

// New wires an Orchestrator for the given workspace root. warn receives
// non-fatal producer diagnostics.
func New(root string, cfg config.Gate, cmd validator.CommandRunner, warn io.Writer) (*Orchestrator, error) {
	producer, err := plugin.ForMode(cfg.PluginMode, root, cmd)
	if err != nil {
		return nil, err
	}

	dispatcher := validator.NewDispatcher(root, cmd)
	dispatcher.SetStepTimeout(cfg.StepTimeoutDuration())
	if len(cfg.Chains) > 0 {
		dispatcher.SetChains(mergeChains(cfg.Chains))
	}

	return &Orchestrator{
		root:       root,
		cfg:        cfg,
		producer:   producer,
		gate:       artifact.NewGate(root),
		scanner:    artifact.NewScanner(root),
		dispatcher: dispatcher,
		warn:       warn,
		state:      StateIdle,
	}, nil
}

// State returns the current run state.
func (o *Orchestrator) State() State { return o.state }

// advance moves to the next state, enforcing the fixed sequence.
func (o *Orchestrator) advance(to State) error {
	for i, s := range stateOrder[:len(stateOrder)-1] {
		if s == o.state {
			if stateOrder[i+1] != to {
				return fmt.Errorf("illegal transition %s -> %s", o.state, to)
			}
			o.state = to
			return nil
		}
	}
	return fmt.Errorf("illegal transition %s -> %s", o.state, to)
}

// Run executes one phase check. The returned Outcome aggregates every
// failure found; an error is returned only for internal faults (unreadable
// artifacts, broken state), never for gate failures.
func (o *Orchestrator) Run(ctx context.Context, p phase.Phase) (*Outcome, error) {
	o.state = StateIdle
	ws := workspace.Detect(o.root)
	reqs := phase.RequirementsFor(p)
	out := &Outcome{Phase: p, Mode: o.producer.Name(), Workspace: ws}

	if err := o.advance(StateInvoking); err != nil {
		return nil, err
	}
	for _, pr := range o.producer.Produce(ctx, p, reqs, ws) {
		switch {
		case pr.Err != nil:
			fmt.Fprintf(o.warn, "warning: produce %s: %v\n", pr.Path, pr.Err)
		case !pr.Written && pr.Note != "":
			fmt.Fprintf(o.warn, "warning: %s: %s\n", pr.Path, pr.Note)
		}
	}

	if err := o.advance(StateGating); err != nil {
		return nil, err
	}
	out.Artifacts = o.gate.Check(p, reqs, ws)
	for _, err := range out.Artifacts.Errors(p) {
		mae := err.(*artifact.MissingArtifactError)
		out.addFailure(Failure{
			Class:  ClassMissingArtifact,
			Path:   mae.Path,
			Detail: mae.Error(),
		})
	}

	if err := o.advance(StateScanning); err != nil {
		return nil, err
	}
	var blocking []artifact.Finding
	for _, path := range out.Artifacts.Present {
		findings, err := o.scanner.Scan(path)
		if err != nil {
			return nil, err
		}
		for _, f := range findings {
			if f.Severity.Blocking() {
				blocking = append(blocking, f)
			} else {
				out.Advisories = append(out.Advisories, f)
			}
		}
	}

	if err := o.advance(StateResolving); err != nil {
		return nil, err
	}
	if len(blocking) > 0 {
		plan := readOptional(filepath.Join(o.root, o.cfg.PlanPath))
		ledger := readOptional(filepath.Join(o.root, o.cfg.LedgerPath))
		for _, u := range mitigation.Resolve(blocking, plan, ledger) {
			class := ClassUnmitigatedFinding
			if u.Reason != mitigation.ReasonUncovered {
				class = ClassInvalidMitigationDoc
			}
			out.addFailure(Failure{
				Class:    class,
				Path:     u.Finding.Source,
				Severity: string(u.Finding.Severity),
				Detail:   u.Error(),
			})
		}
	}

	if err := o.advance(StateValidating); err != nil {
		return nil, err
	}
	if o.cfg.PhaseValidates(string(p)) {
		out.Chains = o.dispatcher.Dispatch(ctx, p, ws)
		for _, chain := range out.Chains {
			for _, step := range chain.Steps {
				if step.Status == validator.StepPassed {
					continue
				}
				detail := fmt.Sprintf("%s chain: %s %s (%s)", chain.Ecosystem, step.Tool, step.Status, step.Summary)
				out.addFailure(Failure{
					Class:    ClassValidatorFailure,
					Tool:     chain.Ecosystem + "/" + step.Tool,
					ExitCode: step.ExitCode,
					Detail:   detail,
				})
			}
		}
	}

	if err := o.advance(StateAggregated); err != nil {
		return nil, err
	}
	return out, nil
}

// readOptional returns the file's text, or "" if it does not exist. The
// mitigation documents are legitimately absent in repositories with no
// blocking findings yet.
func readOptional(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

// mergeChains overlays gate.yaml chain overrides on the built-in chains.
func mergeChains(overrides map[string][]config.ChainStep) []validator.Chain {
	chains := validator.DefaultChains()
	for i, chain := range chains {
		steps, ok := overrides[chain.Ecosystem]
		if !ok {
			continue
		}
		replaced := make([]validator.Step, 0, len(steps))
		for _, s := range steps {
			parser := s.Parser
			if parser == "" {
				parser = "generic"
			}
			replaced = append(replaced, validator.Step{Tool: s.Tool, Command: s.Command, Parser: parser})
		}
		chains[i].Steps = replaced
	}
	return chains
}
