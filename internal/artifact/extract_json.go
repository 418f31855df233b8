package artifact

import (
	"encoding/json"
	"strings"
)

// JSONExtractor handles producers that emit structured JSON (npm audit,
// pip-audit, and the like). It walks the document generically looking for
// severity-bearing objects, since scanner schemas differ per tool.
type JSONExtractor struct{}

func (e *JSONExtractor) Name() string { return "json" }

// CanExtract accepts content that parses as a JSON object or array.
func (e *JSONExtractor) CanExtract(content string) bool {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return false
	}
	var v interface{}
	return json.Unmarshal([]byte(trimmed), &v) == nil
}

// severityKeys are the field names tools use to report a finding's level.
var severityKeys = []string{"severity", "level", "impact"}

// idKeys are the field names tools use to identify a finding.
var idKeys = []string{"id", "cve", "ghsa", "advisory", "rule_id", "ruleId", "vulnerability_id"}

func (e *JSONExtractor) Extract(source, content string) []Finding {
	var doc interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &doc); err != nil {
		return nil
	}
	var findings []Finding
	walkJSON(doc, func(obj map[string]interface{}) {
		for _, key := range severityKeys {
			raw, ok := obj[key].(string)
			if !ok {
				continue
			}
			sev, ok := ParseSeverity(raw)
			if !ok {
				continue
			}
			findings = append(findings, Finding{
				Severity: sev,
				Source:   source,
				ID:       idFromObject(obj),
			})
			break
		}
	})
	return findings
}

// walkJSON visits every object in a decoded JSON document.
func walkJSON(v interface{}, visit func(map[string]interface{})) {
	switch node := v.(type) {
	case map[string]interface{}:
		visit(node)
		for _, child := range node {
			walkJSON(child, visit)
		}
	case []interface{}:
		for _, child := range node {
			walkJSON(child, visit)
		}
	}
}

func idFromObject(obj map[string]interface{}) string {
	for _, key := range idKeys {
		switch id := obj[key].(type) {
		case string:
			if id != "" {
				return id
			}
		case float64:
			// Numeric IDs (npm advisory numbers) are not useful for
			// matching against mitigation prose; skip them.
		}
	}
	return ""
}
