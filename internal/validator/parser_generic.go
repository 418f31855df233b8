package validator

import "fmt"

// GenericParser is the fallback for tools without a dedicated parser.
type GenericParser struct{}

func (p *GenericParser) Parse(stdout string, stderr string, exitCode int) ParseResult {
	if exitCode == 0 {
		return ParseResult{Passed: true, Summary: "passed (exit code 0)"}
	}
	return ParseResult{
		Summary: fmt.Sprintf("exit code %d, stdout=%d bytes, stderr=%d bytes", exitCode, len(stdout), len(stderr)),
	}
}
