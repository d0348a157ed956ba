package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dshills/reviewhook/internal/scanner"
)

const defaultAPIURL = "https://api.github.com"

// Client provides the GitHub REST API operations the service needs:
// repository tree listing, raw content fetch, issue creation, and
// issue/PR comment creation.
type Client struct {
	token   string
	apiURL  string
	httpCli *http.Client
}

// NewClient creates a new GitHub client. Requires GITHUB_TOKEN env var;
// GITHUB_API_URL overrides the endpoint (for GitHub Enterprise and tests).
func NewClient() (*Client, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN environment variable is not set")
	}

	apiURL := os.Getenv("GITHUB_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	return &Client{
		token:   token,
		apiURL:  strings.TrimRight(apiURL, "/"),
		httpCli: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (c *Client) do(ctx context.Context, method, url string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		return fmt.Errorf("authentication failed: %s", string(respBody))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("GitHub API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
	}
	return nil
}

type treeResponse struct {
	Tree      []treeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

type treeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
	Size int    `json:"size"`
}

// GetTree lists the repository tree at ref recursively.
func (c *Client) GetTree(ctx context.Context, owner, repo, ref string) ([]scanner.TreeEntry, error) {
	reqURL := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1", c.apiURL, owner, repo, url.PathEscape(ref))

	var result treeResponse
	if err := c.do(ctx, "GET", reqURL, nil, &result); err != nil {
		return nil, fmt.Errorf("fetching tree for %s/%s@%s: %w", owner, repo, ref, err)
	}

	entries := make([]scanner.TreeEntry, len(result.Tree))
	for i, e := range result.Tree {
		entries[i] = scanner.TreeEntry{Path: e.Path, Type: e.Type, Size: e.Size}
	}
	return entries, nil
}

// GetFileContent fetches the raw content of one file at ref.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, filePath, ref string) (string, error) {
	reqURL := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s",
		c.apiURL, owner, repo, escapePath(filePath), url.QueryEscape(ref))

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	// The raw media type skips base64 decoding of the contents payload.
	req.Header.Set("Accept", "application/vnd.github.raw")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", filePath, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("GitHub API error fetching %s (status %d): %s", filePath, resp.StatusCode, string(body))
	}
	return string(body), nil
}

// escapePath escapes each segment of a repository file path so characters
// like spaces and '#' survive URL construction.
func escapePath(filePath string) string {
	parts := strings.Split(filePath, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// Issue is the payload for creating a report issue.
type Issue struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Labels []string `json:"labels,omitempty"`
}

// CreateIssue files a new issue on the repository.
func (c *Client) CreateIssue(ctx context.Context, owner, repo string, issue Issue) error {
	reqURL := fmt.Sprintf("%s/repos/%s/%s/issues", c.apiURL, owner, repo)
	if err := c.do(ctx, "POST", reqURL, issue, nil); err != nil {
		return fmt.Errorf("creating issue: %w", err)
	}
	return nil
}

// CreateIssueComment posts a comment on an issue or pull request. GitHub's
// issue-comment endpoint covers PR conversation comments as well.
func (c *Client) CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) error {
	reqURL := fmt.Sprintf("%s/repos/%s/%s/issues/%d/comments", c.apiURL, owner, repo, number)
	payload := map[string]string{"body": body}
	if err := c.do(ctx, "POST", reqURL, payload, nil); err != nil {
		return fmt.Errorf("creating comment on #%d: %w", number, err)
	}
	return nil
}
