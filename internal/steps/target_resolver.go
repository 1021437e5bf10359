// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-04
// Last Modified: 2026-03-06

package steps

import (
	"fmt"
	"log"

	"github.com/similigh/simili-sync/internal/core/pipeline"
	"github.com/similigh/simili-sync/internal/targets"
	"github.com/similigh/simili-sync/internal/utils/text"
)

// TargetResolver finds the issue named by the pull request's Targets line.
type TargetResolver struct {
	github pipeline.GitHubAPI
	dryRun bool
}

// NewTargetResolver creates a new target resolver step.
func NewTargetResolver(deps *pipeline.Dependencies) (*TargetResolver, error) {
	if deps.GitHub == nil {
		return nil, fmt.Errorf("github client is required")
	}
	return &TargetResolver{github: deps.GitHub, dryRun: deps.DryRun}, nil
}

// Name returns the step name.
func (s *TargetResolver) Name() string {
	return "target_resolver"
}

// Run parses the Targets line and loads the linked issue. When the line is
// missing or invalid the pull request gets an explanatory comment and the
// pipeline stops.
func (s *TargetResolver) Run(ctx *pipeline.Context) error {
	pr := ctx.PullRequest
	repo := ctx.Config.IssueRepo

	ref, err := targets.Parse(pr.Body, repo.Owner, repo.Name)
	if err != nil {
		log.Printf("[target_resolver] Targets parsing failed: %v", err)
		body := text.BuildMissingTargetsComment(repo.Owner, repo.Name, err.Error())
		if s.dryRun {
			log.Printf("[target_resolver] DRY RUN: Would comment on PR #%d:\n%s", pr.Number, body)
		} else {
			if err := s.github.CreateComment(ctx.Ctx, pr.Org, pr.Repo, pr.Number, body); err != nil {
				return err
			}
			ctx.Result.CommentsPosted++
		}
		return ctx.Skip(err.Error())
	}

	ctx.Result.IssueNumber = ref.Number

	issue, err := s.github.GetIssue(ctx.Ctx, ref.Owner, ref.Repo, ref.Number)
	if err != nil {
		return err
	}

	assignees := make([]string, 0, len(issue.Assignees))
	for _, a := range issue.Assignees {
		if login := a.GetLogin(); login != "" {
			assignees = append(assignees, login)
		}
	}

	ctx.Issue = &pipeline.Issue{
		Org:       ref.Owner,
		Repo:      ref.Repo,
		Number:    ref.Number,
		NodeID:    issue.GetNodeID(),
		URL:       issue.GetHTMLURL(),
		Assignees: assignees,
	}
	log.Printf("[target_resolver] PR #%d targets %s", pr.Number, ref)
	return nil
}
