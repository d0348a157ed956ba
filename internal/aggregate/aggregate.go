package aggregate

import (
	"context"
	"sync"
	"time"

	"github.com/dshills/reviewhook/internal/analysis"
	"github.com/dshills/reviewhook/internal/pipeline"
	"github.com/dshills/reviewhook/internal/scanner"
)

// Event types accepted by the aggregator context.
const (
	EventPush        = "push"
	EventPullRequest = "pull_request"
)

// Context identifies what is being reviewed.
type Context struct {
	Repository string // "owner/repo"
	Branch     string
	EventType  string // EventPush or EventPullRequest
}

// Outcome is the per-file result of running the review pipeline. Exactly one
// of Report/Metrics (success) or Error (failure) is meaningful.
type Outcome struct {
	FileName string             `json:"fileName"`
	Success  bool               `json:"success"`
	Report   string             `json:"report,omitempty"`
	Metrics  pipeline.Metrics   `json:"metrics,omitempty"`
	Findings []analysis.Finding `json:"findings,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// CriticalFile names a successfully reviewed file with error findings.
type CriticalFile struct {
	FileName string `json:"fileName"`
	Errors   int    `json:"errors"`
}

// Review is the repository-wide result combining all file outcomes.
// Totals sum over successful outcomes only; failed outcomes are retained in
// PerFileOutcomes for diagnostic visibility.
type Review struct {
	Repository      string         `json:"repository"`
	Branch          string         `json:"branch"`
	EventType       string         `json:"eventType"`
	TotalFiles      int            `json:"totalFiles"`
	TotalIssues     int            `json:"totalIssues"`
	TotalErrors     int            `json:"totalErrors"`
	CriticalFiles   []CriticalFile `json:"criticalFiles"`
	PerFileOutcomes []Outcome      `json:"perFileOutcomes"`
}

// ReviewFn reviews one file. aggregate never calls it with shared mutable
// state; each invocation is isolated.
type ReviewFn func(ctx context.Context, file scanner.SourceFile) (pipeline.FileReport, error)

// Options bounds the fan-out.
type Options struct {
	// MaxConcurrent caps in-flight reviews. Values < 1 fall back to the default.
	MaxConcurrent int
	// FileTimeout is the per-file deadline. A hung review becomes a failed
	// outcome instead of stalling the aggregation. Zero disables the deadline.
	FileTimeout time.Duration
}

const defaultMaxConcurrent = 4

// Run fans reviewFn out over every file with bounded concurrency and
// collects outcomes indexed by original position, so PerFileOutcomes always
// reflects input order regardless of completion order. A failure in one
// file's review never affects its siblings.
func Run(ctx context.Context, files []scanner.SourceFile, rctx Context, reviewFn ReviewFn, opts Options) Review {
	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = defaultMaxConcurrent
	}

	outcomes := make([]Outcome, len(files))
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup

	for i, file := range files {
		wg.Add(1)
		go func(i int, file scanner.SourceFile) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			fileCtx := ctx
			if opts.FileTimeout > 0 {
				var cancel context.CancelFunc
				fileCtx, cancel = context.WithTimeout(ctx, opts.FileTimeout)
				defer cancel()
			}

			report, err := reviewFn(fileCtx, file)
			if err != nil {
				outcomes[i] = Outcome{FileName: file.Path, Error: err.Error()}
				return
			}
			outcomes[i] = Outcome{
				FileName: report.FileName,
				Success:  true,
				Report:   report.Report,
				Metrics:  report.Metrics,
				Findings: report.Findings,
			}
		}(i, file)
	}

	wg.Wait()

	review := Review{
		Repository:      rctx.Repository,
		Branch:          rctx.Branch,
		EventType:       rctx.EventType,
		TotalFiles:      len(files),
		PerFileOutcomes: outcomes,
	}
	for _, o := range outcomes {
		if !o.Success {
			continue
		}
		review.TotalIssues += o.Metrics.StaticIssues
		review.TotalErrors += o.Metrics.StaticErrors
		if o.Metrics.StaticErrors > 0 {
			review.CriticalFiles = append(review.CriticalFiles, CriticalFile{
				FileName: o.FileName,
				Errors:   o.Metrics.StaticErrors,
			})
		}
	}
	return review
}
