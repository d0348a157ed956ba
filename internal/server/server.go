package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dshills/reviewhook/internal/aggregate"
	"github.com/dshills/reviewhook/internal/github"
	"github.com/dshills/reviewhook/internal/report"
	"github.com/dshills/reviewhook/internal/scanner"
	"github.com/dshills/reviewhook/internal/webhook"
)

// Fetcher retrieves the reviewable files of a repository ref.
// internal/scanner.Scanner implements it.
type Fetcher interface {
	Fetch(ctx context.Context, owner, repo, ref string) ([]scanner.SourceFile, error)
}

// Poster publishes review results back to the repository.
// internal/github.Client implements it.
type Poster interface {
	CreateIssue(ctx context.Context, owner, repo string, issue github.Issue) error
	CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) error
}

// Server handles webhook deliveries. All collaborators are injected so the
// handler can run against fakes in tests.
type Server struct {
	fetcher  Fetcher
	poster   Poster
	reviewFn aggregate.ReviewFn
	opts     aggregate.Options
	now      func() time.Time
	logW     io.Writer
}

// New creates a webhook server.
func New(fetcher Fetcher, poster Poster, reviewFn aggregate.ReviewFn, opts aggregate.Options) *Server {
	return &Server{
		fetcher:  fetcher,
		poster:   poster,
		reviewFn: reviewFn,
		opts:     opts,
		now:      time.Now,
		logW:     os.Stderr,
	}
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", s.handleWebhook)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

type summaryResponse struct {
	TotalFiles         int `json:"totalFiles"`
	TotalIssues        int `json:"totalIssues"`
	TotalErrors        int `json:"totalErrors"`
	CriticalFilesCount int `json:"criticalFilesCount"`
}

type webhookResponse struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message,omitempty"`
	Error      string           `json:"error,omitempty"`
	Repository string           `json:"repository,omitempty"`
	Branch     string           `json:"branch,omitempty"`
	EventType  string           `json:"eventType,omitempty"`
	Summary    *summaryResponse `json:"summary,omitempty"`
	Timestamp  string           `json:"timestamp,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"status":"ok"}`)
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "reading request body failed")
		return
	}

	eventType := r.Header.Get("X-GitHub-Event")
	event, err := webhook.ParseEvent(eventType, body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fmt.Fprintf(s.logW, "review started: %s/%s@%s (%s)\n", event.Owner, event.Repo, event.Branch, event.Type)

	review, err := s.runReview(r.Context(), event)
	if err != nil {
		fmt.Fprintf(s.logW, "review failed: %s/%s@%s: %v\n", event.Owner, event.Repo, event.Branch, err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	fmt.Fprintf(s.logW, "review completed: %s files=%d issues=%d errors=%d\n",
		review.Repository, review.TotalFiles, review.TotalIssues, review.TotalErrors)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(webhookResponse{
		Success:    true,
		Message:    "Code review completed",
		Repository: review.Repository,
		Branch:     review.Branch,
		EventType:  review.EventType,
		Summary: &summaryResponse{
			TotalFiles:         review.TotalFiles,
			TotalIssues:        review.TotalIssues,
			TotalErrors:        review.TotalErrors,
			CriticalFilesCount: len(review.CriticalFiles),
		},
		Timestamp: s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) runReview(ctx context.Context, event webhook.Event) (aggregate.Review, error) {
	files, err := s.fetcher.Fetch(ctx, event.Owner, event.Repo, event.Branch)
	if err != nil {
		return aggregate.Review{}, fmt.Errorf("fetching repository files: %w", err)
	}

	rctx := aggregate.Context{
		Repository: event.Owner + "/" + event.Repo,
		Branch:     event.Branch,
		EventType:  event.Type,
	}
	review := aggregate.Run(ctx, files, rctx, s.reviewFn, s.opts)

	if err := s.publish(ctx, event, review); err != nil {
		return aggregate.Review{}, err
	}
	return review, nil
}

// publish posts the composed report back to GitHub: an issue for push events
// that found problems, a conversation comment for pull requests.
func (s *Server) publish(ctx context.Context, event webhook.Event, review aggregate.Review) error {
	markdown := report.Compose(review, s.now())

	switch event.Type {
	case webhook.EventPush:
		if review.TotalIssues == 0 {
			return nil
		}
		issue := github.Issue{
			Title:  report.IssueTitle(review.Branch, review.TotalErrors),
			Body:   markdown,
			Labels: report.IssueLabels(),
		}
		if err := s.poster.CreateIssue(ctx, event.Owner, event.Repo, issue); err != nil {
			return fmt.Errorf("posting review issue: %w", err)
		}
	case webhook.EventPullRequest:
		if event.PullNumber == 0 {
			return fmt.Errorf("pull_request event without a PR number")
		}
		if err := s.poster.CreateIssueComment(ctx, event.Owner, event.Repo, event.PullNumber, markdown); err != nil {
			return fmt.Errorf("posting review comment: %w", err)
		}
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(webhookResponse{Success: false, Error: msg})
}
