// Package phase defines the fixed development lifecycle and the evidence
// each phase must produce before the gate lets it pass.
package phase

import "fmt"

// Phase is a named stage in the development lifecycle. The set of phases
// and their order are fixed at compile time; phases are never created or
// mutated at runtime.
type Phase string

const (
	Spec      Phase = "spec"
	Plan      Phase = "plan"
	Tasks     Phase = "tasks"
	Implement Phase = "implement"
	Analyze   Phase = "analyze"
	Review    Phase = "review"
	Deploy    Phase = "deploy"
)

// lifecycle lists every phase in ordinal order.
var lifecycle = []Phase{Spec, Plan, Tasks, Implement, Analyze, Review, Deploy}

// UnknownPhaseError is returned when a name outside the fixed lifecycle
// is given.
type UnknownPhaseError struct {
	Name string
}

func (e *UnknownPhaseError) Error() string {
	return fmt.Sprintf("unknown phase %q (valid: %s)", e.Name, names())
}

// Parse resolves a phase name to its Phase value.
func Parse(name string) (Phase, error) {
	for _, p := range lifecycle {
		if string(p) == name {
			return p, nil
		}
	}
	return "", &UnknownPhaseError{Name: name}
}

// Ordinal returns the phase's position in the lifecycle, starting at 0.
// Unknown values return -1; they cannot be constructed through Parse.
func (p Phase) Ordinal() int {
	for i, candidate := range lifecycle {
		if candidate == p {
			return i
		}
	}
	return -1
}

func (p Phase) String() string {
	return string(p)
}

// All returns the phases in ordinal order. The returned slice is a copy.
func All() []Phase {
	out := make([]Phase, len(lifecycle))
	copy(out, lifecycle)
	return out
}

func names() string {
	s := ""
	for i, p := range lifecycle {
		if i > 0 {
			s += ", "
		}
		s += string(p)
	}
	return s
}
