package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dshills/reviewhook/internal/aggregate"
	"github.com/dshills/reviewhook/internal/analysis"
	"github.com/dshills/reviewhook/internal/github"
	"github.com/dshills/reviewhook/internal/pipeline"
	"github.com/dshills/reviewhook/internal/scanner"
)

type fakeFetcher struct {
	files []scanner.SourceFile
	err   error
}

func (f *fakeFetcher) Fetch(ctx context.Context, owner, repo, ref string) ([]scanner.SourceFile, error) {
	return f.files, f.err
}

type fakePoster struct {
	issues   []github.Issue
	comments []struct {
		Number int
		Body   string
	}
	err error
}

func (p *fakePoster) CreateIssue(ctx context.Context, owner, repo string, issue github.Issue) error {
	if p.err != nil {
		return p.err
	}
	p.issues = append(p.issues, issue)
	return nil
}

func (p *fakePoster) CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) error {
	if p.err != nil {
		return p.err
	}
	p.comments = append(p.comments, struct {
		Number int
		Body   string
	}{number, body})
	return nil
}

func staticOnlyReview(ctx context.Context, file scanner.SourceFile) (pipeline.FileReport, error) {
	result := analysis.New().Analyze(file.Content, file.Path)
	return pipeline.FileReport{
		FileName: file.Path,
		Report:   "report for " + file.Path,
		Metrics:  pipeline.Metrics{StaticIssues: result.Summary.Total, StaticErrors: result.Summary.Errors},
		Findings: result.Issues,
	}, nil
}

func newTestServer(fetcher *fakeFetcher, poster *fakePoster) *Server {
	s := New(fetcher, poster, staticOnlyReview, aggregate.Options{MaxConcurrent: 2})
	s.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	s.logW = &strings.Builder{}
	return s
}

func postWebhook(t *testing.T, s *Server, eventType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("X-GitHub-Event", eventType)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

const pushBody = `{
	"ref": "refs/heads/main",
	"repository": {"name": "widgets", "full_name": "acme/widgets", "owner": {"login": "acme"}}
}`

const prBody = `{
	"number": 7,
	"pull_request": {"number": 7, "head": {"ref": "fix/login"}},
	"repository": {"name": "widgets", "full_name": "acme/widgets", "owner": {"login": "acme"}}
}`

func TestHandleWebhook_PushWithIssues(t *testing.T) {
	fetcher := &fakeFetcher{files: []scanner.SourceFile{
		{Path: "app.js", Content: "const apiKey = \"sk-123\"\nconsole.log('x')\n"},
	}}
	poster := &fakePoster{}
	s := newTestServer(fetcher, poster)

	rec := postWebhook(t, s, "push", pushBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success    bool   `json:"success"`
		Message    string `json:"message"`
		Repository string `json:"repository"`
		Branch     string `json:"branch"`
		EventType  string `json:"eventType"`
		Summary    struct {
			TotalFiles         int `json:"totalFiles"`
			TotalIssues        int `json:"totalIssues"`
			TotalErrors        int `json:"totalErrors"`
			CriticalFilesCount int `json:"criticalFilesCount"`
		} `json:"summary"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Success || resp.Message != "Code review completed" {
		t.Errorf("response = %+v", resp)
	}
	if resp.Repository != "acme/widgets" || resp.Branch != "main" || resp.EventType != "push" {
		t.Errorf("context fields = %+v", resp)
	}
	if resp.Summary.TotalFiles != 1 || resp.Summary.TotalIssues != 2 || resp.Summary.TotalErrors != 1 {
		t.Errorf("summary = %+v", resp.Summary)
	}
	if resp.Summary.CriticalFilesCount != 1 {
		t.Errorf("criticalFilesCount = %d, want 1", resp.Summary.CriticalFilesCount)
	}
	if resp.Timestamp == "" {
		t.Error("missing timestamp")
	}

	if len(poster.issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(poster.issues))
	}
	issue := poster.issues[0]
	if issue.Title != "🤖 代码审查报告 - main (发现 1 个错误)" {
		t.Errorf("issue title = %q", issue.Title)
	}
	if len(issue.Labels) != 2 {
		t.Errorf("issue labels = %v", issue.Labels)
	}
	if !strings.Contains(issue.Body, "# 🤖 Code Review Report") {
		t.Error("issue body missing report header")
	}
}

func TestHandleWebhook_PushNoIssuesSkipsIssue(t *testing.T) {
	fetcher := &fakeFetcher{files: []scanner.SourceFile{
		{Path: "clean.js", Content: "const x = 1\n"},
	}}
	poster := &fakePoster{}
	s := newTestServer(fetcher, poster)

	rec := postWebhook(t, s, "push", pushBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(poster.issues) != 0 {
		t.Errorf("issue created for clean push: %+v", poster.issues)
	}
}

func TestHandleWebhook_PullRequestComment(t *testing.T) {
	fetcher := &fakeFetcher{files: []scanner.SourceFile{
		{Path: "clean.js", Content: "const x = 1\n"},
	}}
	poster := &fakePoster{}
	s := newTestServer(fetcher, poster)

	rec := postWebhook(t, s, "pull_request", prBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(poster.comments) != 1 {
		t.Fatalf("got %d comments, want 1", len(poster.comments))
	}
	if poster.comments[0].Number != 7 {
		t.Errorf("comment number = %d, want 7", poster.comments[0].Number)
	}
	if !strings.Contains(poster.comments[0].Body, "No issues found") {
		t.Error("clean PR comment should contain the congratulatory section")
	}
}

func TestHandleWebhook_UnsupportedEvent(t *testing.T) {
	s := newTestServer(&fakeFetcher{}, &fakePoster{})

	rec := postWebhook(t, s, "issues", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Success || resp.Error == "" {
		t.Errorf("response = %+v", resp)
	}
}

func TestHandleWebhook_FetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: fmt.Errorf("tree not found")}
	s := newTestServer(fetcher, &fakePoster{})

	rec := postWebhook(t, s, "push", pushBody)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "tree not found") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandleWebhook_MethodNotAllowed(t *testing.T) {
	s := newTestServer(&fakeFetcher{}, &fakePoster{})
	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(&fakeFetcher{}, &fakePoster{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}
