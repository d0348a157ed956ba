package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/dshills/reviewhook/internal/analysis"
	"github.com/dshills/reviewhook/internal/scanner"
)

// fallbackReview is substituted when the AI call returns empty text.
const fallbackReview = "No review generated"

// AIFunc is the injected generative-review capability. Implementations may
// block on network I/O; this is the pipeline's only suspension point.
type AIFunc func(ctx context.Context, code, fileName string, static analysis.Result) (string, error)

// Metrics are the per-file counters surfaced to the aggregator.
type Metrics struct {
	StaticIssues int `json:"staticIssues"`
	StaticErrors int `json:"staticErrors"`
}

// FileReport is the successful result of reviewing one file.
type FileReport struct {
	FileName string
	Report   string
	Metrics  Metrics
	Findings []analysis.Finding
}

// Reviewer runs the three-stage per-file review: static analysis, AI review,
// report assembly. Collaborators are injected; Reviewer holds no global state.
type Reviewer struct {
	analyzer *analysis.Analyzer
	ai       AIFunc
}

// New creates a Reviewer from its collaborators.
func New(analyzer *analysis.Analyzer, ai AIFunc) *Reviewer {
	return &Reviewer{analyzer: analyzer, ai: ai}
}

// ReviewFile reviews a single file. An AI failure fails the whole file; no
// partial report is produced.
func (r *Reviewer) ReviewFile(ctx context.Context, file scanner.SourceFile) (FileReport, error) {
	static := r.analyzer.Analyze(file.Content, file.Path)

	reviewText, err := r.ai(ctx, file.Content, file.Path, static)
	if err != nil {
		return FileReport{}, fmt.Errorf("ai review of %s: %w", file.Path, err)
	}
	if strings.TrimSpace(reviewText) == "" {
		reviewText = fallbackReview
	}

	return FileReport{
		FileName: file.Path,
		Report:   assembleReport(file.Path, static, reviewText),
		Metrics: Metrics{
			StaticIssues: static.Summary.Total,
			StaticErrors: static.Summary.Errors,
		},
		Findings: static.Issues,
	}, nil
}

// assembleReport renders the per-file Markdown document: heading, static
// analysis section, AI review section, footer. Section order is fixed.
func assembleReport(fileName string, static analysis.Result, reviewText string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s\n\n", fileName)

	b.WriteString("### Static Analysis\n\n")
	fmt.Fprintf(&b, "Total: %d | Errors: %d | Warnings: %d\n\n",
		static.Summary.Total, static.Summary.Errors, static.Summary.Warnings)
	for _, f := range static.Issues {
		fmt.Fprintf(&b, "- Line %d [%s]: %s (%s)\n", f.Line, f.Severity, f.Message, f.Rule)
	}
	if len(static.Issues) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("### AI Review\n\n")
	b.WriteString(reviewText)
	b.WriteString("\n\n---\n*Generated by reviewhook*\n")

	return b.String()
}
