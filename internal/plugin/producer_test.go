package plugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spectools/phasegate/internal/phase"
	"github.com/spectools/phasegate/internal/workspace"
)

type fakeCmd struct {
	calls  []string
	stdout string
	exit   int
	runErr error
}

func (f *fakeCmd) Run(ctx context.Context, dir string, command string) (string, string, int, error) {
	f.calls = append(f.calls, command)
	return f.stdout, "", f.exit, f.runErr
}

func TestForMode(t *testing.T) {
	if p, err := ForMode("", t.TempDir(), &fakeCmd{}); err != nil || p.Name() != ModeLocalScript {
		t.Errorf("empty mode must default to local-script, got %v, %v", p, err)
	}
	if p, err := ForMode(ModeExternalAgent, t.TempDir(), &fakeCmd{}); err != nil || p.Name() != ModeExternalAgent {
		t.Errorf("expected external-agent producer, got %v, %v", p, err)
	}
	if _, err := ForMode("hybrid", t.TempDir(), &fakeCmd{}); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestAgentStub_WritesPlaceholderOnlyWhenMissing(t *testing.T) {
	root := t.TempDir()
	stub := NewAgentStub(root)
	reqs := phase.RequirementsFor(phase.Plan)

	results := stub.Produce(context.Background(), phase.Plan, reqs, workspace.Snapshot{Root: root})
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("unexpected results: %+v", results)
	}

	path := filepath.Join(root, "reports/security/plan-scan.md")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("placeholder not written: %v", err)
	}
	if !strings.Contains(string(data), "external analysis agent") {
		t.Errorf("unexpected placeholder body: %s", data)
	}

	// Simulate the agent filling the artifact, then re-produce: the
	// content must survive.
	if err := os.WriteFile(path, []byte("Severity: HIGH\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	results = stub.Produce(context.Background(), phase.Plan, reqs, workspace.Snapshot{Root: root})
	if results[0].Note != "exists, left for external agent" {
		t.Errorf("unexpected note: %q", results[0].Note)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "Severity: HIGH\n" {
		t.Errorf("agent content was clobbered: %s", data)
	}
}

func TestAgentStub_SkipsInapplicableRequirements(t *testing.T) {
	root := t.TempDir()
	stub := NewAgentStub(root)

	// tasks artifact is Python-conditional; without Python nothing is written.
	results := stub.Produce(context.Background(), phase.Tasks, phase.RequirementsFor(phase.Tasks), workspace.Snapshot{Root: root})
	if len(results) != 0 {
		t.Fatalf("expected no results, got %+v", results)
	}
	if _, err := os.Stat(filepath.Join(root, "reports/tests/tasks-unit-help.md")); err == nil {
		t.Error("conditional artifact must not be produced without a Python manifest")
	}
}

func TestLocalScript_MergesScannerOutput(t *testing.T) {
	root := t.TempDir()
	cmd := &fakeCmd{stdout: `{"vulnerabilities":{"total":1}}`, exit: 1}
	ls := NewLocalScript(root, cmd)
	ls.SetLookPath(func(string) (string, error) { return "/usr/bin/tool", nil })

	results := ls.Produce(context.Background(), phase.Implement, phase.RequirementsFor(phase.Implement), workspace.Snapshot{Root: root, Node: true})
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("unexpected results: %+v", results)
	}
	if len(cmd.calls) != 1 || cmd.calls[0] != "npm audit --json" {
		t.Errorf("unexpected scanner calls: %v", cmd.calls)
	}

	data, err := os.ReadFile(filepath.Join(root, "reports/security/implement-scan.md"))
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}
	body := string(data)
	if !strings.Contains(body, "npm audit --json") || !strings.Contains(body, `"total":1`) {
		t.Errorf("scanner output not merged into artifact:\n%s", body)
	}
}

func TestLocalScript_OverwritesPriorContent(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "reports/security/implement-scan.md")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("stale run\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ls := NewLocalScript(root, &fakeCmd{stdout: "clean"})
	ls.SetLookPath(func(string) (string, error) { return "/usr/bin/tool", nil })
	ls.Produce(context.Background(), phase.Implement, phase.RequirementsFor(phase.Implement), workspace.Snapshot{Root: root, Rust: true})

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "stale run") {
		t.Error("local-script mode must overwrite prior content")
	}
}

func TestLocalScript_MissingScannerIsNotedNotFatal(t *testing.T) {
	root := t.TempDir()
	cmd := &fakeCmd{}
	ls := NewLocalScript(root, cmd)
	ls.SetLookPath(func(string) (string, error) { return "", fmt.Errorf("not found") })

	results := ls.Produce(context.Background(), phase.Plan, phase.RequirementsFor(phase.Plan), workspace.Snapshot{Root: root, Python: true})
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("missing scanner must not be fatal: %+v", results)
	}
	if len(cmd.calls) != 0 {
		t.Errorf("scanner should not run when unavailable, got %v", cmd.calls)
	}
	if !strings.Contains(results[0].Note, "not installed") {
		t.Errorf("note should record the unavailable scanner, got %q", results[0].Note)
	}
	if results[0].Written {
		t.Error("result must not claim the artifact was written")
	}

	// No scanner ran, so nothing is written: the artifact gate is the
	// enforcement point and must see the gap.
	if _, err := os.Stat(filepath.Join(root, "reports/security/plan-scan.md")); err == nil {
		t.Error("artifact must not be fabricated without scanner output")
	}
}

func TestLocalScript_NoEcosystemsWritesNothing(t *testing.T) {
	root := t.TempDir()
	ls := NewLocalScript(root, &fakeCmd{})
	ls.SetLookPath(func(string) (string, error) { return "/usr/bin/tool", nil })

	results := ls.Produce(context.Background(), phase.Plan, phase.RequirementsFor(phase.Plan), workspace.Snapshot{Root: root})
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("unexpected results: %+v", results)
	}
	if _, err := os.Stat(filepath.Join(root, "reports/security/plan-scan.md")); err == nil {
		t.Error("artifact must not be written for an empty workspace")
	}
}
