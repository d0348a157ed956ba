package webhook

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Event types recognized from the X-GitHub-Event header.
const (
	EventPush        = "push"
	EventPullRequest = "pull_request"
)

// Event is the normalized form of an incoming webhook delivery: just enough
// to locate the repository, the ref to review, and where to post results.
type Event struct {
	Type       string
	Owner      string
	Repo       string
	Branch     string
	PullNumber int
}

type pushPayload struct {
	Ref        string `json:"ref"`
	Repository struct {
		Name     string `json:"name"`
		FullName string `json:"full_name"`
		Owner    struct {
			Login string `json:"login"`
			Name  string `json:"name"`
		} `json:"owner"`
	} `json:"repository"`
}

type pullRequestPayload struct {
	Action      string `json:"action"`
	Number      int    `json:"number"`
	PullRequest struct {
		Number int `json:"number"`
		Head   struct {
			Ref string `json:"ref"`
		} `json:"head"`
	} `json:"pull_request"`
	Repository struct {
		Name     string `json:"name"`
		FullName string `json:"full_name"`
		Owner    struct {
			Login string `json:"login"`
			Name  string `json:"name"`
		} `json:"owner"`
	} `json:"repository"`
}

// ParseEvent decodes a webhook payload of the given event type into an Event.
// Unsupported event types return an error; callers should treat that as a
// delivery to acknowledge and skip rather than a failure.
func ParseEvent(eventType string, body []byte) (Event, error) {
	switch eventType {
	case EventPush:
		return parsePush(body)
	case EventPullRequest:
		return parsePullRequest(body)
	default:
		return Event{}, fmt.Errorf("unsupported event type: %s", eventType)
	}
}

func parsePush(body []byte) (Event, error) {
	var p pushPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return Event{}, fmt.Errorf("parsing push payload: %w", err)
	}

	owner, repo, err := splitRepo(p.Repository.FullName, p.Repository.Name, p.Repository.Owner.Login, p.Repository.Owner.Name)
	if err != nil {
		return Event{}, err
	}

	if p.Ref == "" {
		return Event{}, fmt.Errorf("push payload missing ref")
	}
	branch := strings.TrimPrefix(p.Ref, "refs/heads/")

	return Event{
		Type:   EventPush,
		Owner:  owner,
		Repo:   repo,
		Branch: branch,
	}, nil
}

func parsePullRequest(body []byte) (Event, error) {
	var p pullRequestPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return Event{}, fmt.Errorf("parsing pull_request payload: %w", err)
	}

	owner, repo, err := splitRepo(p.Repository.FullName, p.Repository.Name, p.Repository.Owner.Login, p.Repository.Owner.Name)
	if err != nil {
		return Event{}, err
	}

	number := p.Number
	if number == 0 {
		number = p.PullRequest.Number
	}
	if p.PullRequest.Head.Ref == "" {
		return Event{}, fmt.Errorf("pull_request payload missing head ref")
	}

	return Event{
		Type:       EventPullRequest,
		Owner:      owner,
		Repo:       repo,
		Branch:     p.PullRequest.Head.Ref,
		PullNumber: number,
	}, nil
}

func splitRepo(fullName, name, login, ownerName string) (string, string, error) {
	if owner, repo, ok := strings.Cut(fullName, "/"); ok && owner != "" && repo != "" {
		return owner, repo, nil
	}

	owner := login
	if owner == "" {
		owner = ownerName
	}
	if owner == "" || name == "" {
		return "", "", fmt.Errorf("payload missing repository identification")
	}
	return owner, name, nil
}
