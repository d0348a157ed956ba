package aggregate

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/dshills/reviewhook/internal/pipeline"
	"github.com/dshills/reviewhook/internal/scanner"
)

func makeFiles(n int) []scanner.SourceFile {
	files := make([]scanner.SourceFile, n)
	for i := range files {
		files[i] = scanner.SourceFile{Path: fmt.Sprintf("file%02d.js", i), Content: "var x"}
	}
	return files
}

func TestRun_PreservesInputOrderUnderJitter(t *testing.T) {
	files := makeFiles(12)

	// Random completion order: each review sleeps a random short duration.
	reviewFn := func(_ context.Context, f scanner.SourceFile) (pipeline.FileReport, error) {
		time.Sleep(time.Duration(rand.Intn(20)) * time.Millisecond)
		return pipeline.FileReport{FileName: f.Path, Report: "r:" + f.Path}, nil
	}

	review := Run(context.Background(), files, Context{Repository: "o/r", Branch: "main", EventType: EventPush}, reviewFn, Options{MaxConcurrent: 8})

	if len(review.PerFileOutcomes) != len(files) {
		t.Fatalf("got %d outcomes, want %d", len(review.PerFileOutcomes), len(files))
	}
	for i, o := range review.PerFileOutcomes {
		if o.FileName != files[i].Path {
			t.Errorf("outcome[%d] = %q, want %q", i, o.FileName, files[i].Path)
		}
	}
}

func TestRun_FailureIsolation(t *testing.T) {
	files := makeFiles(3)
	reviewFn := func(_ context.Context, f scanner.SourceFile) (pipeline.FileReport, error) {
		if f.Path == "file01.js" {
			return pipeline.FileReport{}, errors.New("model exploded")
		}
		return pipeline.FileReport{
			FileName: f.Path,
			Report:   "ok",
			Metrics:  pipeline.Metrics{StaticIssues: 2, StaticErrors: 1},
		}, nil
	}

	review := Run(context.Background(), files, Context{Repository: "o/r", Branch: "main", EventType: EventPush}, reviewFn, Options{})

	if review.TotalFiles != 3 {
		t.Errorf("TotalFiles = %d, want 3", review.TotalFiles)
	}
	if len(review.PerFileOutcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(review.PerFileOutcomes))
	}

	failed := review.PerFileOutcomes[1]
	if failed.Success {
		t.Error("outcome[1] should have failed")
	}
	if !strings.Contains(failed.Error, "model exploded") {
		t.Errorf("failure message = %q", failed.Error)
	}
	if failed.Report != "" {
		t.Error("failed outcome must not carry a report")
	}

	// Metrics computed from the 2 successes only.
	if review.TotalIssues != 4 {
		t.Errorf("TotalIssues = %d, want 4", review.TotalIssues)
	}
	if review.TotalErrors != 2 {
		t.Errorf("TotalErrors = %d, want 2", review.TotalErrors)
	}
}

func TestRun_CriticalFilesExcludeFailures(t *testing.T) {
	files := makeFiles(4)
	reviewFn := func(_ context.Context, f scanner.SourceFile) (pipeline.FileReport, error) {
		switch f.Path {
		case "file00.js": // errors, success -> critical
			return pipeline.FileReport{FileName: f.Path, Metrics: pipeline.Metrics{StaticIssues: 3, StaticErrors: 2}}, nil
		case "file01.js": // clean success
			return pipeline.FileReport{FileName: f.Path}, nil
		case "file02.js": // would have had errors but the review failed
			return pipeline.FileReport{}, errors.New("timeout")
		default: // errors, success -> critical
			return pipeline.FileReport{FileName: f.Path, Metrics: pipeline.Metrics{StaticIssues: 1, StaticErrors: 1}}, nil
		}
	}

	review := Run(context.Background(), files, Context{}, reviewFn, Options{})

	if len(review.CriticalFiles) != 2 {
		t.Fatalf("got %d critical files, want 2", len(review.CriticalFiles))
	}
	if review.CriticalFiles[0].FileName != "file00.js" || review.CriticalFiles[0].Errors != 2 {
		t.Errorf("criticalFiles[0] = %+v", review.CriticalFiles[0])
	}
	if review.CriticalFiles[1].FileName != "file03.js" {
		t.Errorf("criticalFiles[1] = %+v", review.CriticalFiles[1])
	}
}

func TestRun_FileTimeoutBecomesFailedOutcome(t *testing.T) {
	files := makeFiles(2)
	reviewFn := func(ctx context.Context, f scanner.SourceFile) (pipeline.FileReport, error) {
		if f.Path == "file00.js" {
			select {
			case <-ctx.Done():
				return pipeline.FileReport{}, ctx.Err()
			case <-time.After(5 * time.Second):
				return pipeline.FileReport{FileName: f.Path}, nil
			}
		}
		return pipeline.FileReport{FileName: f.Path}, nil
	}

	start := time.Now()
	review := Run(context.Background(), files, Context{}, reviewFn, Options{FileTimeout: 50 * time.Millisecond})
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("aggregation waited on the hung file: %v", elapsed)
	}

	if review.PerFileOutcomes[0].Success {
		t.Error("hung review should be a failed outcome")
	}
	if !review.PerFileOutcomes[1].Success {
		t.Error("sibling review should be unaffected")
	}
}

func TestRun_BoundedConcurrency(t *testing.T) {
	files := makeFiles(16)
	inFlight := make(chan int, 64)
	active := make(chan struct{}, 64)

	reviewFn := func(_ context.Context, f scanner.SourceFile) (pipeline.FileReport, error) {
		active <- struct{}{}
		inFlight <- len(active)
		time.Sleep(5 * time.Millisecond)
		<-active
		return pipeline.FileReport{FileName: f.Path}, nil
	}

	Run(context.Background(), files, Context{}, reviewFn, Options{MaxConcurrent: 3})
	close(inFlight)

	peak := 0
	for n := range inFlight {
		if n > peak {
			peak = n
		}
	}
	if peak > 3 {
		t.Errorf("peak in-flight reviews = %d, want <= 3", peak)
	}
}

func TestRun_EmptyFiles(t *testing.T) {
	review := Run(context.Background(), nil, Context{Repository: "o/r"}, nil, Options{})
	if review.TotalFiles != 0 || len(review.PerFileOutcomes) != 0 {
		t.Errorf("empty input produced %+v", review)
	}
}
