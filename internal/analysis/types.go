package analysis

// Severity classifies a static finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding is a single static-analysis detection on one source line.
type Finding struct {
	Line     int      `json:"line"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Rule     string   `json:"rule"`
}

// Summary holds finding counts for one file.
type Summary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// Result is the full set of findings plus counts for one file.
type Result struct {
	Issues  []Finding `json:"issues"`
	Summary Summary   `json:"summary"`
}

// ComputeSummary tallies severities across findings.
func ComputeSummary(issues []Finding) Summary {
	s := Summary{Total: len(issues)}
	for _, f := range issues {
		switch f.Severity {
		case SeverityError:
			s.Errors++
		case SeverityWarning:
			s.Warnings++
		}
	}
	return s
}
