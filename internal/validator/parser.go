package validator

// ParseResult is the normalized interpretation of one tool's output.
type ParseResult struct {
	Passed  bool
	Summary string
}

// Parser converts raw command output into a ParseResult.
type Parser interface {
	Parse(stdout string, stderr string, exitCode int) ParseResult
}

// parsers maps parser names to implementations. Unknown names fall back
// to the generic parser.
func defaultParsers() map[string]Parser {
	return map[string]Parser{
		"prettier":   &PrettierParser{},
		"eslint":     &ESLintParser{},
		"typescript": &TypeScriptParser{},
		"vitest":     &VitestParser{},
		"cargo":      &CargoParser{},
		"black":      &BlackParser{},
		"mypy":       &MypyParser{},
		"pytest":     &PytestParser{},
		"generic":    &GenericParser{},
	}
}
