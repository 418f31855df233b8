package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Extractor classifies producer output without assuming a fixed schema.
// Extractors are tried in registration order; the first whose CanExtract
// accepts the content wins.
type Extractor interface {
	Name() string
	CanExtract(content string) bool
	Extract(source, content string) []Finding
}

// Scanner reads artifacts and extracts severity findings through the
// registered extractors.
type Scanner struct {
	root       string
	extractors []Extractor
}

// NewScanner creates a Scanner rooted at the given directory with the
// default extractor chain: structured JSON first, then the conservative
// free-text fallback.
func NewScanner(root string) *Scanner {
	return &Scanner{
		root: root,
		extractors: []Extractor{
			&JSONExtractor{},
			&TextExtractor{},
		},
	}
}

// Scan reads the artifact at the given workspace-relative path and returns
// its findings. A file with no severity markers yields an empty list, not
// an error.
func (s *Scanner) Scan(path string) ([]Finding, error) {
	data, err := os.ReadFile(filepath.Join(s.root, path))
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	content := string(data)
	for _, ex := range s.extractors {
		if ex.CanExtract(content) {
			return ex.Extract(path, content), nil
		}
	}
	return nil, nil
}

// severityTokenRe matches the four severity keywords as whole words,
// case-insensitively.
var severityTokenRe = regexp.MustCompile(`(?i)\b(critical|high|medium|low)\b`)

// findingIDRe matches common advisory identifiers.
var findingIDRe = regexp.MustCompile(`\b(CVE-\d{4}-\d{4,}|GHSA-[a-zA-Z0-9]{4}-[a-zA-Z0-9]{4}-[a-zA-Z0-9]{4}|RUSTSEC-\d{4}-\d{4,})\b`)

// TextExtractor is the conservative free-text fallback. Any occurrence of
// a severity keyword counts as a finding, even inside unrelated prose:
// for a security gate, false positives beat false negatives. An advisory
// ID on the same line is attached to the finding.
type TextExtractor struct{}

func (e *TextExtractor) Name() string { return "text" }

// CanExtract always accepts; the text extractor is the fallback.
func (e *TextExtractor) CanExtract(content string) bool { return true }

func (e *TextExtractor) Extract(source, content string) []Finding {
	var findings []Finding
	for _, line := range strings.Split(content, "\n") {
		tokens := severityTokenRe.FindAllString(line, -1)
		if len(tokens) == 0 {
			continue
		}
		id := findingIDRe.FindString(line)
		for _, token := range tokens {
			sev, ok := ParseSeverity(token)
			if !ok {
				continue
			}
			findings = append(findings, Finding{Severity: sev, Source: source, ID: id})
		}
	}
	return findings
}
