// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-03-05
// Last Modified: 2026-03-06

package commands

import (
	"fmt"
	"os"

	"github.com/google/go-github/v60/github"

	"github.com/similigh/simili-sync/internal/core/pipeline"
)

// loadEvent reads the webhook payload GitHub Actions stores at path.
func loadEvent(name, path string) (*pipeline.Event, *pipeline.PullRequest, error) {
	if name == "" {
		return nil, nil, fmt.Errorf("event name is required (set GITHUB_EVENT_NAME or --event-name)")
	}
	if path == "" {
		return nil, nil, fmt.Errorf("event payload path is required (set GITHUB_EVENT_PATH or --event-path)")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read event payload: %w", err)
	}
	return parseEvent(name, data)
}

// parseEvent decodes a webhook payload. Events other than pull requests are
// returned without a pull request so the gatekeeper can skip them.
func parseEvent(name string, payload []byte) (*pipeline.Event, *pipeline.PullRequest, error) {
	parsed, err := github.ParseWebHook(name, payload)
	if err != nil {
		if name == "pull_request" || name == "pull_request_target" {
			return nil, nil, fmt.Errorf("failed to parse %s payload: %w", name, err)
		}
		return &pipeline.Event{Name: name}, nil, nil
	}

	switch e := parsed.(type) {
	case *github.PullRequestEvent:
		event := &pipeline.Event{Name: name, Action: e.GetAction(), Sender: e.GetSender().GetLogin()}
		return event, pullRequestFrom(e.GetPullRequest(), e.GetRepo()), nil
	case *github.PullRequestTargetEvent:
		event := &pipeline.Event{Name: name, Action: e.GetAction(), Sender: e.GetSender().GetLogin()}
		return event, pullRequestFrom(e.GetPullRequest(), e.GetRepo()), nil
	default:
		return &pipeline.Event{Name: name}, nil, nil
	}
}

func pullRequestFrom(pr *github.PullRequest, repo *github.Repository) *pipeline.PullRequest {
	if pr == nil {
		return nil
	}

	labels := make([]string, 0, len(pr.Labels))
	for _, l := range pr.Labels {
		if name := l.GetName(); name != "" {
			labels = append(labels, name)
		}
	}

	return &pipeline.PullRequest{
		Org:    repo.GetOwner().GetLogin(),
		Repo:   repo.GetName(),
		Number: pr.GetNumber(),
		Title:  pr.GetTitle(),
		Body:   pr.GetBody(),
		Author: pr.GetUser().GetLogin(),
		URL:    pr.GetHTMLURL(),
		Labels: labels,
		Draft:  pr.GetDraft(),
	}
}
