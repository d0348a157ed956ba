package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dshills/reviewhook/internal/aggregate"
	"github.com/dshills/reviewhook/internal/analysis"
)

// Truncation caps. Fixed by design: the composed report must fit inside
// issue-tracker comment body limits.
const (
	maxDetailFiles     = 10
	maxFindingsPerFile = 5
)

// IssueTitle formats the title used when the report is filed as an issue.
func IssueTitle(branch string, totalErrors int) string {
	return fmt.Sprintf("🤖 代码审查报告 - %s (发现 %d 个错误)", branch, totalErrors)
}

// IssueLabels are attached to every report issue.
func IssueLabels() []string {
	return []string{"code-review", "automated"}
}

// Compose renders the aggregated review into a single bounded-length
// Markdown document. The generation timestamp is caller-supplied so the
// function stays pure and testable.
func Compose(review aggregate.Review, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString("# 🤖 Code Review Report\n\n")
	fmt.Fprintf(&b, "**Repository:** %s\n", review.Repository)
	fmt.Fprintf(&b, "**Branch:** %s\n", review.Branch)
	fmt.Fprintf(&b, "**Event:** %s\n", review.EventType)
	fmt.Fprintf(&b, "**Generated:** %s\n\n", generatedAt.UTC().Format("2006-01-02 15:04:05 UTC"))

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(&b, "| Files scanned | %d |\n", review.TotalFiles)
	fmt.Fprintf(&b, "| Total issues | %d |\n", review.TotalIssues)
	fmt.Fprintf(&b, "| Errors | %d |\n", review.TotalErrors)
	fmt.Fprintf(&b, "| Critical files | %d |\n\n", len(review.CriticalFiles))

	if review.TotalErrors > 0 {
		b.WriteString("## Files requiring priority fixes\n\n")
		for _, cf := range review.CriticalFiles {
			fmt.Fprintf(&b, "- `%s` - %d error(s)\n", cf.FileName, cf.Errors)
		}
		b.WriteString("\n")
	}

	if review.TotalIssues > 0 {
		composeDetails(&b, review)
	} else {
		b.WriteString("## 🎉 No issues found\n\n")
		b.WriteString("Static analysis found nothing to report. Nice work!\n\n")
	}

	b.WriteString("---\n*Generated by reviewhook*\n")
	return b.String()
}

// composeDetails renders per-file finding blocks for the first
// maxDetailFiles qualifying files, in outcome order.
func composeDetails(b *strings.Builder, review aggregate.Review) {
	b.WriteString("## Detailed issue list\n\n")

	rendered := 0
	qualifying := 0
	for _, o := range review.PerFileOutcomes {
		if !o.Success || o.Metrics.StaticIssues == 0 {
			continue
		}
		qualifying++
		if rendered >= maxDetailFiles {
			continue
		}
		rendered++

		fmt.Fprintf(b, "### `%s` (%d issues, %d errors)\n\n", o.FileName, o.Metrics.StaticIssues, o.Metrics.StaticErrors)
		for i, f := range o.Findings {
			if i >= maxFindingsPerFile {
				break
			}
			fmt.Fprintf(b, "- %s Line %d: %s (%s)\n", severityEmoji(f.Severity), f.Line, f.Message, f.Rule)
		}
		if omitted := len(o.Findings) - maxFindingsPerFile; omitted > 0 {
			fmt.Fprintf(b, "- ... and %d more finding(s) in this file\n", omitted)
		}
		b.WriteString("\n")
	}

	if extra := qualifying - maxDetailFiles; extra > 0 {
		fmt.Fprintf(b, "... 还有 %d 个文件包含问题\n\n", extra)
	}
}

func severityEmoji(s analysis.Severity) string {
	switch s {
	case analysis.SeverityError:
		return "🔴"
	case analysis.SeverityWarning:
		return "🟡"
	default:
		return "ℹ️"
	}
}
