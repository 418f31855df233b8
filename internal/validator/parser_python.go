package validator

import (
	"fmt"
	"regexp"
)

// BlackParser parses black --check output.
type BlackParser struct{}

var blackReformatRe = regexp.MustCompile(`(?m)^would reformat`)

func (p *BlackParser) Parse(stdout string, stderr string, exitCode int) ParseResult {
	if exitCode == 0 {
		return ParseResult{Passed: true, Summary: "all files formatted"}
	}
	// black reports "would reformat <file>" per file on stderr.
	count := len(blackReformatRe.FindAllString(stdout+"\n"+stderr, -1))
	return ParseResult{Summary: fmt.Sprintf("%d files need formatting", count)}
}

// MypyParser parses mypy output.
type MypyParser struct{}

// mypy summary line: "Found 3 errors in 2 files (checked 14 source files)"
var mypyFoundRe = regexp.MustCompile(`Found (\d+) errors? in`)

func (p *MypyParser) Parse(stdout string, stderr string, exitCode int) ParseResult {
	if exitCode == 0 {
		return ParseResult{Passed: true, Summary: "no type errors"}
	}
	if m := mypyFoundRe.FindStringSubmatch(stdout); m != nil {
		return ParseResult{Summary: fmt.Sprintf("%s type errors", m[1])}
	}
	return ParseResult{Summary: fmt.Sprintf("exit code %d", exitCode)}
}

// PytestParser parses pytest -q output.
type PytestParser struct{}

// pytest summary lines look like "2 failed, 10 passed in 0.41s" or
// "12 passed in 0.32s".
var (
	pytestFailedRe = regexp.MustCompile(`(\d+) failed`)
	pytestPassedRe = regexp.MustCompile(`(\d+) passed`)
)

func (p *PytestParser) Parse(stdout string, stderr string, exitCode int) ParseResult {
	failed, passed := "0", "0"
	if m := pytestFailedRe.FindStringSubmatch(stdout); m != nil {
		failed = m[1]
	}
	if m := pytestPassedRe.FindStringSubmatch(stdout); m != nil {
		passed = m[1]
	}
	return ParseResult{
		Passed:  exitCode == 0,
		Summary: fmt.Sprintf("%s passed, %s failed", passed, failed),
	}
}
