package analysis

import "strings"

// Analyzer is the line-oriented static rule engine. It is safe for
// concurrent use; Analyze is a pure function of its inputs.
type Analyzer struct {
	rules []Rule
}

// New creates an Analyzer with the built-in rule set.
func New() *Analyzer {
	return &Analyzer{rules: DefaultRules()}
}

// NewWithPack creates an Analyzer with a rules pack overlay applied.
func NewWithPack(pack *Pack) *Analyzer {
	return &Analyzer{rules: pack.Apply(DefaultRules())}
}

// Analyze scans code line by line and returns all findings in rule-priority
// order within a line, ordered by ascending line number across lines.
// Line numbers are 1-based. Empty code yields an empty result.
// fileName is accepted for parity with the pipeline contract; the built-in
// rules are language-agnostic and do not consult it.
func (a *Analyzer) Analyze(code, fileName string) Result {
	if code == "" {
		return Result{Issues: []Finding{}}
	}

	var issues []Finding
	for i, line := range strings.Split(code, "\n") {
		for _, rule := range a.rules {
			if rule.Match(line) {
				issues = append(issues, Finding{
					Line:     i + 1,
					Severity: rule.Severity,
					Message:  rule.Message,
					Rule:     rule.ID,
				})
			}
		}
	}
	if issues == nil {
		issues = []Finding{}
	}

	return Result{
		Issues:  issues,
		Summary: ComputeSummary(issues),
	}
}
