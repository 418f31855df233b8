package phase

import (
	"errors"
	"testing"

	"github.com/spectools/phasegate/internal/workspace"
)

func TestParse_AllKnownPhases(t *testing.T) {
	for i, name := range []string{"spec", "plan", "tasks", "implement", "analyze", "review", "deploy"} {
		p, err := Parse(name)
		if err != nil {
			t.Fatalf("Parse(%q): %v", name, err)
		}
		if p.Ordinal() != i {
			t.Errorf("expected ordinal %d for %q, got %d", i, name, p.Ordinal())
		}
	}
}

func TestParse_Unknown(t *testing.T) {
	for _, name := range []string{"", "design", "Implement", "deploy "} {
		_, err := Parse(name)
		if err == nil {
			t.Fatalf("expected error for %q", name)
		}
		var upe *UnknownPhaseError
		if !errors.As(err, &upe) {
			t.Errorf("expected UnknownPhaseError for %q, got %T", name, err)
		}
	}
}

func TestAll_Ordered(t *testing.T) {
	phases := All()
	if len(phases) != 7 {
		t.Fatalf("expected 7 phases, got %d", len(phases))
	}
	for i := 1; i < len(phases); i++ {
		if phases[i-1].Ordinal() >= phases[i].Ordinal() {
			t.Errorf("phases out of order at %d: %s >= %s", i, phases[i-1], phases[i])
		}
	}
	// Mutating the copy must not affect the registry.
	phases[0] = "bogus"
	if All()[0] != Spec {
		t.Error("All() returned a shared slice")
	}
}

func TestRequirementsFor_Deterministic(t *testing.T) {
	for _, p := range All() {
		first := RequirementsFor(p)
		second := RequirementsFor(p)
		if len(first) != len(second) {
			t.Fatalf("phase %s: requirement count changed between calls", p)
		}
		for i := range first {
			if first[i].Path != second[i].Path {
				t.Errorf("phase %s: requirement %d path changed", p, i)
			}
		}
	}
}

func TestRequirementsFor_PythonConditional(t *testing.T) {
	reqs := RequirementsFor(Tasks)
	if len(reqs) != 1 {
		t.Fatalf("expected 1 tasks requirement, got %d", len(reqs))
	}
	req := reqs[0]
	if req.Path != "reports/tests/tasks-unit-help.md" {
		t.Errorf("unexpected path %q", req.Path)
	}
	if req.Required(workspace.Snapshot{Python: false}) {
		t.Error("tasks artifact must not be required without a Python manifest")
	}
	if !req.Required(workspace.Snapshot{Python: true}) {
		t.Error("tasks artifact must be required with a Python manifest")
	}
}

func TestRequirementsFor_UnconditionalAlwaysRequired(t *testing.T) {
	for _, req := range RequirementsFor(Plan) {
		if !req.Required(workspace.Snapshot{}) {
			t.Errorf("unconditional requirement %q reported not required", req.Path)
		}
	}
}

func TestValidatesCode(t *testing.T) {
	cases := map[Phase]bool{
		Spec:      false,
		Plan:      false,
		Tasks:     false,
		Implement: true,
		Analyze:   false,
		Review:    true,
		Deploy:    false,
	}
	for p, want := range cases {
		if got := ValidatesCode(p); got != want {
			t.Errorf("ValidatesCode(%s)=%v, want %v", p, got, want)
		}
	}
}
