// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-04
// Last Modified: 2026-03-06

package steps

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v60/github"

	"github.com/similigh/simili-sync/internal/core/config"
	"github.com/similigh/simili-sync/internal/core/pipeline"
	"github.com/similigh/simili-sync/internal/core/rules"
	"github.com/similigh/simili-sync/internal/projects"
)

type comment struct {
	repo   string
	number int
	body   string
}

// fakeGitHub records every mutating call.
type fakeGitHub struct {
	issue        *github.Issue
	issueErr     error
	comments     []comment
	labelsAdded  []string
	labelsGone   []string
	assigned     []string
	removeErr    map[string]error
	assignErr    error
	getIssueRepo string
}

func (f *fakeGitHub) GetIssue(ctx context.Context, org, repo string, number int) (*github.Issue, error) {
	f.getIssueRepo = fmt.Sprintf("%s/%s#%d", org, repo, number)
	if f.issueErr != nil {
		return nil, f.issueErr
	}
	if f.issue == nil {
		return &github.Issue{
			Number:  github.Int(number),
			NodeID:  github.String("I_node"),
			HTMLURL: github.String(fmt.Sprintf("https://github.com/%s/%s/issues/%d", org, repo, number)),
		}, nil
	}
	return f.issue, nil
}

func (f *fakeGitHub) CreateComment(ctx context.Context, org, repo string, number int, body string) error {
	f.comments = append(f.comments, comment{repo: org + "/" + repo, number: number, body: body})
	return nil
}

func (f *fakeGitHub) AddLabels(ctx context.Context, org, repo string, number int, labels []string) error {
	f.labelsAdded = append(f.labelsAdded, labels...)
	return nil
}

func (f *fakeGitHub) RemoveLabel(ctx context.Context, org, repo string, number int, label string) error {
	if err := f.removeErr[label]; err != nil {
		return err
	}
	f.labelsGone = append(f.labelsGone, label)
	return nil
}

func (f *fakeGitHub) AddAssignees(ctx context.Context, org, repo string, number int, assignees []string) error {
	if f.assignErr != nil {
		return f.assignErr
	}
	f.assigned = append(f.assigned, assignees...)
	return nil
}

// fakeProjects is an in-memory board that never regresses status.
type fakeProjects struct {
	order    []string
	items    map[int]string // issue number -> item id
	statuses map[string]string
	creates  int
	updates  int
	err      error
}

func newFakeProjects() *fakeProjects {
	return &fakeProjects{
		order:    []string{"Backlog", "Ready", "In Progress", "In review", "Completed"},
		items:    make(map[int]string),
		statuses: make(map[string]string),
	}
}

func (f *fakeProjects) EnsureTracked(ctx context.Context, issue projects.IssueRef) (*projects.ItemLink, error) {
	if f.err != nil {
		return nil, f.err
	}
	if id, ok := f.items[issue.Number]; ok {
		return &projects.ItemLink{ItemID: id, CurrentStatus: f.statuses[id]}, nil
	}
	f.creates++
	id := fmt.Sprintf("PVTI_%d", issue.Number)
	f.items[issue.Number] = id
	return &projects.ItemLink{ItemID: id, Created: true}, nil
}

func (f *fakeProjects) AdvanceStatus(ctx context.Context, itemID, current, target string) (*projects.Transition, error) {
	if current != "" && f.index(current) >= f.index(target) {
		return &projects.Transition{Previous: current, New: current}, nil
	}
	f.updates++
	f.statuses[itemID] = target
	return &projects.Transition{Changed: true, Previous: current, New: target}, nil
}

func (f *fakeProjects) index(name string) int {
	for i, s := range f.order {
		if s == name {
			return i
		}
	}
	return -1
}

func testConfig() *config.Config {
	return &config.Config{
		IssueRepo: config.IssueRepoConfig{Owner: "acme", Name: "issues"},
		Project: config.ProjectConfig{
			Owner:       "acme",
			Number:      7,
			StatusField: "Status",
			StatusOrder: []string{"Backlog", "Ready", "In Progress", "In review", "Completed"},
		},
		Labels: config.LabelsConfig{
			ReadyForReview:    "Ready For Review",
			ReadyForReviewAny: []string{"Ready For Review", "status: ready for review"},
		},
		Rules: []rules.Rule{
			{
				On: rules.Trigger{Event: "pull_request", Actions: []string{"opened", "reopened"}},
				Do: []rules.Effect{
					rules.EnsureTracked{Enabled: true},
					rules.EnsureStatusAtLeast{Status: "In Progress"},
					rules.AssignAuthor{Enabled: true},
					rules.AuditOnChange{Enabled: true},
				},
			},
			{
				On: rules.Trigger{Event: "pull_request", Actions: []string{"ready_for_review"}},
				Do: []rules.Effect{
					rules.EnsureStatusAtLeast{Status: "In review"},
					rules.AddLabelIfMissing{Label: "Ready For Review"},
					rules.RemoveLabelsIfPresent{Labels: []string{"WIP"}},
					rules.AuditOnChange{Enabled: true},
				},
			},
		},
	}
}

func newPRContext(action, body string) *pipeline.Context {
	return pipeline.NewContext(context.Background(),
		&pipeline.Event{Name: "pull_request", Action: action, Sender: "dev"},
		&pipeline.PullRequest{
			Org:    "acme",
			Repo:   "app",
			Number: 5,
			Body:   body,
			Author: "dev",
			URL:    "https://github.com/acme/app/pull/5",
		},
		testConfig())
}

func apiError(code int, message string) error {
	return &github.ErrorResponse{
		Response: &http.Response{StatusCode: code, Request: &http.Request{Method: http.MethodPost}},
		Message:  message,
	}
}
