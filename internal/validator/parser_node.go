package validator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// PrettierParser parses prettier --check output.
type PrettierParser struct{}

func (p *PrettierParser) Parse(stdout string, stderr string, exitCode int) ParseResult {
	// prettier --check lists unformatted files as "[warn] path" lines,
	// ending with a "[warn] Code style issues..." summary line.
	count := 0
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "[warn] ") {
			continue
		}
		rest := strings.TrimPrefix(line, "[warn] ")
		if strings.Contains(rest, "Code style issues") || strings.Contains(rest, "Forgot to run") {
			continue
		}
		count++
	}

	if exitCode == 0 {
		return ParseResult{Passed: true, Summary: "all files formatted"}
	}
	return ParseResult{Summary: fmt.Sprintf("%d files need formatting", count)}
}

// ESLintParser parses ESLint JSON output.
type ESLintParser struct{}

type eslintFile struct {
	FilePath string `json:"filePath"`
	Messages []struct {
		Severity int `json:"severity"` // 1=warning, 2=error
	} `json:"messages"`
}

func (p *ESLintParser) Parse(stdout string, stderr string, exitCode int) ParseResult {
	var files []eslintFile
	if err := json.Unmarshal([]byte(stdout), &files); err != nil {
		return ParseResult{
			Passed:  exitCode == 0,
			Summary: fmt.Sprintf("exit code %d (could not parse ESLint JSON)", exitCode),
		}
	}

	errors, warnings := 0, 0
	for _, f := range files {
		for _, m := range f.Messages {
			if m.Severity == 2 {
				errors++
			} else {
				warnings++
			}
		}
	}
	return ParseResult{
		Passed:  errors == 0,
		Summary: fmt.Sprintf("%d errors, %d warnings", errors, warnings),
	}
}

// TypeScriptParser parses tsc --noEmit output.
type TypeScriptParser struct{}

// tsc output format: src/auth.ts(42,5): error TS2345: Argument of type...
var tscLineRe = regexp.MustCompile(`^.+\(\d+,\d+\):\s+error\s+TS\d+:`)

func (p *TypeScriptParser) Parse(stdout string, stderr string, exitCode int) ParseResult {
	errors := 0
	for _, line := range strings.Split(stdout, "\n") {
		if tscLineRe.MatchString(strings.TrimSpace(line)) {
			errors++
		}
	}
	if exitCode == 0 {
		return ParseResult{Passed: true, Summary: "no type errors"}
	}
	return ParseResult{Summary: fmt.Sprintf("%d type errors", errors)}
}

// VitestParser parses vitest/jest JSON reporter output.
type VitestParser struct{}

type vitestOutput struct {
	NumTotalTests   int `json:"numTotalTests"`
	NumPassedTests  int `json:"numPassedTests"`
	NumFailedTests  int `json:"numFailedTests"`
	NumPendingTests int `json:"numPendingTests"`
}

func (p *VitestParser) Parse(stdout string, stderr string, exitCode int) ParseResult {
	var raw vitestOutput
	if err := json.Unmarshal([]byte(stdout), &raw); err != nil {
		return ParseResult{
			Passed:  exitCode == 0,
			Summary: fmt.Sprintf("exit code %d (could not parse test JSON)", exitCode),
		}
	}
	return ParseResult{
		Passed: exitCode == 0 && raw.NumFailedTests == 0,
		Summary: fmt.Sprintf("%d passed, %d failed, %d skipped out of %d",
			raw.NumPassedTests, raw.NumFailedTests, raw.NumPendingTests, raw.NumTotalTests),
	}
}
