// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-04
// Last Modified: 2026-03-06

package steps

import (
	"fmt"
	"log"
	"strings"

	"github.com/similigh/simili-sync/internal/core/pipeline"
	similiGithub "github.com/similigh/simili-sync/internal/integrations/github"
)

// IssueAssigner assigns the pull request author to the linked issue.
type IssueAssigner struct {
	github pipeline.GitHubAPI
	dryRun bool
}

// NewIssueAssigner creates a new issue assigner step.
func NewIssueAssigner(deps *pipeline.Dependencies) (*IssueAssigner, error) {
	if deps.GitHub == nil {
		return nil, fmt.Errorf("github client is required")
	}
	return &IssueAssigner{github: deps.GitHub, dryRun: deps.DryRun}, nil
}

// Name returns the step name.
func (s *IssueAssigner) Name() string {
	return "issue_assigner"
}

// Run assigns the author when the plan asks for it. A login GitHub refuses
// to assign is logged and treated as no change.
func (s *IssueAssigner) Run(ctx *pipeline.Context) error {
	if ctx.Plan == nil || !ctx.Plan.AssignAuthor || ctx.Issue == nil {
		return nil
	}
	issue := ctx.Issue

	login := strings.TrimSpace(ctx.PullRequest.Author)
	if login == "" {
		log.Printf("[issue_assigner] Warning: Skipping issue self-assignment: missing PR author login")
		return nil
	}

	if containsFold(issue.Assignees, login) {
		log.Printf("[issue_assigner] Issue already assigned to %s", login)
		return nil
	}

	if s.dryRun {
		log.Printf("[issue_assigner] DRY RUN: Would assign issue #%d to %s", issue.Number, login)
		return nil
	}

	err := s.github.AddAssignees(ctx.Ctx, issue.Org, issue.Repo, issue.Number, []string{login})
	if err != nil {
		if similiGithub.IsUnassignable(err) {
			log.Printf("[issue_assigner] Warning: Could not assign %s to %s/%s#%d", login, issue.Org, issue.Repo, issue.Number)
			return nil
		}
		return err
	}

	issue.Assignees = append(issue.Assignees, login)
	ctx.Result.DidAssignmentChange = true
	log.Printf("[issue_assigner] Assigned issue #%d to %s", issue.Number, login)
	return nil
}
