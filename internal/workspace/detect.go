// Package workspace detects which language ecosystems are present in the
// tree being gated. Detection is a fresh filesystem probe on every run —
// the workspace can change between phases, so snapshots are never cached.
package workspace

import (
	"os"
	"path/filepath"
)

// Snapshot holds the ecosystems detected at gate time. It is computed once
// per invocation and passed by value to every component that needs it.
type Snapshot struct {
	Root   string `json:"root"`
	Node   bool   `json:"node"`
	Rust   bool   `json:"rust"`
	Python bool   `json:"python"`
}

// Manifest files probed per ecosystem. Any one present marks the
// ecosystem as detected.
var manifests = map[string][]string{
	"node":   {"package.json"},
	"rust":   {"Cargo.toml"},
	"python": {"pyproject.toml", "requirements.txt", "setup.py"},
}

// ecosystemOrder fixes the reporting order of detected ecosystems.
var ecosystemOrder = []string{"node", "rust", "python"}

// Detect probes the given root directory for language manifests and
// returns a Snapshot of what it found.
func Detect(root string) Snapshot {
	s := Snapshot{Root: root}
	s.Node = anyExists(root, manifests["node"])
	s.Rust = anyExists(root, manifests["rust"])
	s.Python = anyExists(root, manifests["python"])
	return s
}

func anyExists(root string, names []string) bool {
	for _, name := range names {
		if _, err := os.Stat(filepath.Join(root, name)); err == nil {
			return true
		}
	}
	return false
}

// Has reports whether the named ecosystem was detected.
func (s Snapshot) Has(ecosystem string) bool {
	switch ecosystem {
	case "node":
		return s.Node
	case "rust":
		return s.Rust
	case "python":
		return s.Python
	}
	return false
}

// Ecosystems returns the detected ecosystem names in fixed order.
func (s Snapshot) Ecosystems() []string {
	var out []string
	for _, e := range ecosystemOrder {
		if s.Has(e) {
			out = append(out, e)
		}
	}
	return out
}
