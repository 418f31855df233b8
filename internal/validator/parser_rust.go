package validator

import (
	"fmt"
	"regexp"
	"strings"
)

// CargoParser parses cargo check/clippy/test human output. All three
// report compile errors the same way; test runs additionally emit a
// "test result:" summary line.
type CargoParser struct{}

var (
	cargoErrorRe      = regexp.MustCompile(`(?m)^error(\[E\d+\])?:`)
	cargoTestResultRe = regexp.MustCompile(`test result: (ok|FAILED)\. (\d+) passed; (\d+) failed`)
)

func (p *CargoParser) Parse(stdout string, stderr string, exitCode int) ParseResult {
	combined := stdout + "\n" + stderr

	if m := cargoTestResultRe.FindStringSubmatch(combined); m != nil {
		return ParseResult{
			Passed:  exitCode == 0 && m[1] == "ok",
			Summary: fmt.Sprintf("%s passed, %s failed", m[2], m[3]),
		}
	}

	errors := len(cargoErrorRe.FindAllString(combined, -1))
	if exitCode == 0 {
		summary := "no errors"
		if strings.Contains(combined, "warning:") {
			summary = "no errors (warnings present)"
		}
		return ParseResult{Passed: true, Summary: summary}
	}
	return ParseResult{Summary: fmt.Sprintf("%d errors", errors)}
}
