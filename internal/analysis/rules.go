package analysis

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Rule is a single line-oriented check. Rules are evaluated per line in
// the order they appear in the rule set; each rule reports at most one
// finding per line.
type Rule struct {
	ID       string
	Severity Severity
	Message  string
	pattern  *regexp.Regexp
}

// Match reports whether the rule triggers on the given line.
func (r Rule) Match(line string) bool {
	return r.pattern.MatchString(line)
}

var (
	// Debug-print calls (console.log/.debug/.info or equivalents).
	debugStatementRe = regexp.MustCompile(`(?i)\bconsole\s*\.\s*(log|debug|info)\s*\(`)
	// <identifier containing password/api key/secret/token> = "<non-empty literal>"
	hardcodedSecretRe = regexp.MustCompile(`(?i)[A-Za-z0-9_]*(password|passwd|pwd|api[_-]?key|apikey|secret|token)[A-Za-z0-9_]*\s*[:=]\s*["'][^"']+["']`)
	// Line-comment marker followed by TODO.
	todoCommentRe = regexp.MustCompile(`(?i)(//|#)\s*todo`)
)

// DefaultRules returns the built-in rule set in evaluation priority order:
// debug statements first, then hardcoded secrets, then TODO comments.
func DefaultRules() []Rule {
	return []Rule{
		{ID: "no-console", Severity: SeverityWarning, Message: "Debug statement found", pattern: debugStatementRe},
		{ID: "no-hardcoded-secrets", Severity: SeverityError, Message: "Hardcoded secret detected", pattern: hardcodedSecretRe},
		{ID: "todo-comment", Severity: SeverityInfo, Message: "TODO comment found", pattern: todoCommentRe},
	}
}

// Pack is an optional rules overlay loaded from a YAML file. It can disable
// built-in rules or override their severities; it cannot add new patterns.
type Pack struct {
	Disabled          []string          `yaml:"disabled,omitempty"`
	SeverityOverrides map[string]string `yaml:"severity_overrides,omitempty"`
}

// LoadPack loads a rules pack from disk. Returns nil Pack and nil error if
// path is empty.
func LoadPack(path string) (*Pack, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules pack: %w", err)
	}
	var p Pack
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing rules pack: %w", err)
	}
	return &p, nil
}

// Apply returns the rule set with the pack's disables and severity
// overrides applied. Rule order is preserved. A nil pack is a no-op.
func (p *Pack) Apply(rules []Rule) []Rule {
	if p == nil {
		return rules
	}
	disabled := make(map[string]bool, len(p.Disabled))
	for _, id := range p.Disabled {
		disabled[id] = true
	}
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if disabled[r.ID] {
			continue
		}
		if sev, ok := p.SeverityOverrides[r.ID]; ok {
			r.Severity = Severity(sev)
		}
		out = append(out, r)
	}
	return out
}
