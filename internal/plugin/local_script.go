package plugin

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spectools/phasegate/internal/phase"
	"github.com/spectools/phasegate/internal/validator"
	"github.com/spectools/phasegate/internal/workspace"
)

// scannerCommands are the deterministic local producers run per detected
// ecosystem in local-script mode.
var scannerCommands = map[string]string{
	"node":   "npm audit --json",
	"rust":   "cargo audit",
	"python": "pip-audit",
}

// LocalScript is the local-script mode producer: it runs the dependency
// scanners for every detected ecosystem and merges their output into each
// required artifact path, overwriting prior content for the phase.
type LocalScript struct {
	root     string
	cmd      validator.CommandRunner
	lookPath validator.LookPathFunc
	timeout  time.Duration
	now      func() time.Time
}

// NewLocalScript creates the local-script producer for a workspace root.
func NewLocalScript(root string, cmd validator.CommandRunner) *LocalScript {
	return &LocalScript{
		root:     root,
		cmd:      cmd,
		lookPath: exec.LookPath,
		timeout:  2 * time.Minute,
		now:      time.Now,
	}
}

// SetLookPath substitutes the scanner-availability probe, for tests.
func (l *LocalScript) SetLookPath(fn validator.LookPathFunc) { l.lookPath = fn }

func (l *LocalScript) Name() string { return ModeLocalScript }

func (l *LocalScript) Produce(ctx context.Context, p phase.Phase, reqs []phase.Requirement, ws workspace.Snapshot) []ProduceResult {
	body, notes, ran := l.runScanners(ctx, p, ws)

	var results []ProduceResult
	for _, req := range reqs {
		if !req.Required(ws) {
			continue
		}
		// With no scanner output there is nothing to merge; leaving the
		// artifact absent lets the gate report it instead of masking the
		// gap behind an empty file.
		if !ran {
			results = append(results, ProduceResult{Path: req.Path, Note: "no scanner output; artifact not written (" + notes + ")"})
			continue
		}
		if err := writeAtomic(filepath.Join(l.root, req.Path), []byte(body)); err != nil {
			results = append(results, ProduceResult{Path: req.Path, Err: err})
			continue
		}
		results = append(results, ProduceResult{Path: req.Path, Written: true, Note: notes})
	}
	return results
}

// runScanners executes each detected ecosystem's scanner and merges the
// output into one artifact body. Scanner failures and missing binaries are
// recorded in the body, not raised: the artifact gate decides pass/fail.
// ran reports whether at least one scanner actually executed.
func (l *LocalScript) runScanners(ctx context.Context, p phase.Phase, ws workspace.Snapshot) (body string, notes string, ran bool) {
	var b strings.Builder
	var noteParts []string

	fmt.Fprintf(&b, "# %s scan\n\nGenerated %s by phasegate local-script producers.\n", p, l.now().UTC().Format(time.RFC3339))

	ecosystems := ws.Ecosystems()
	if len(ecosystems) == 0 {
		return "", "no ecosystems detected", false
	}

	for _, eco := range ecosystems {
		command := scannerCommands[eco]
		fmt.Fprintf(&b, "\n## %s (`%s`)\n\n", eco, command)

		if _, err := l.lookPath(program(command)); err != nil {
			fmt.Fprintf(&b, "Scanner `%s` is not installed; no results for this ecosystem.\n", program(command))
			noteParts = append(noteParts, eco+": scanner not installed")
			continue
		}

		scanCtx, cancel := context.WithTimeout(ctx, l.timeout)
		stdout, stderr, exitCode, err := l.cmd.Run(scanCtx, l.root, command)
		cancel()
		if err != nil {
			fmt.Fprintf(&b, "Scanner could not run: %v\n", err)
			noteParts = append(noteParts, eco+": scanner error")
			continue
		}

		ran = true
		fmt.Fprintf(&b, "Exit code %d.\n\n```\n%s\n```\n", exitCode, strings.TrimSpace(stdout+"\n"+stderr))
		noteParts = append(noteParts, fmt.Sprintf("%s: exit %d", eco, exitCode))
	}

	return b.String(), strings.Join(noteParts, "; "), ran
}

func program(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
