package validator

// Step is one tool invocation within an ecosystem's chain.
type Step struct {
	Tool    string
	Command string
	Parser  string
}

// Chain is the ordered formatter → linter → type-check → test sequence
// for one ecosystem. Chains fail fast internally but run independently of
// each other.
type Chain struct {
	Ecosystem string
	Steps     []Step
}

// DefaultChains returns the built-in tool chains. gate.yaml can override
// them per ecosystem.
func DefaultChains() []Chain {
	return []Chain{
		{
			Ecosystem: "node",
			Steps: []Step{
				{Tool: "prettier", Command: "npx prettier --check .", Parser: "prettier"},
				{Tool: "eslint", Command: "npx eslint --format json .", Parser: "eslint"},
				{Tool: "tsc", Command: "npx tsc --noEmit", Parser: "typescript"},
				{Tool: "vitest", Command: "npx vitest run --reporter=json", Parser: "vitest"},
			},
		},
		{
			Ecosystem: "rust",
			Steps: []Step{
				{Tool: "cargo-fmt", Command: "cargo fmt --check", Parser: "generic"},
				{Tool: "clippy", Command: "cargo clippy --all-targets -- -D warnings", Parser: "cargo"},
				{Tool: "cargo-check", Command: "cargo check", Parser: "cargo"},
				{Tool: "cargo-test", Command: "cargo test", Parser: "cargo"},
			},
		},
		{
			Ecosystem: "python",
			Steps: []Step{
				{Tool: "black", Command: "black --check .", Parser: "black"},
				{Tool: "ruff", Command: "ruff check .", Parser: "generic"},
				{Tool: "mypy", Command: "mypy .", Parser: "mypy"},
				{Tool: "pytest", Command: "pytest -q", Parser: "pytest"},
			},
		},
	}
}
