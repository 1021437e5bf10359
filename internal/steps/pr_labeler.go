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

// PRLabeler adds and removes pull request labels as the plan asks.
type PRLabeler struct {
	github pipeline.GitHubAPI
	dryRun bool
}

// NewPRLabeler creates a new pull request labeler step.
func NewPRLabeler(deps *pipeline.Dependencies) (*PRLabeler, error) {
	if deps.GitHub == nil {
		return nil, fmt.Errorf("github client is required")
	}
	return &PRLabeler{github: deps.GitHub, dryRun: deps.DryRun}, nil
}

// Name returns the step name.
func (s *PRLabeler) Name() string {
	return "pr_labeler"
}

// Run applies the plan's label effects.
func (s *PRLabeler) Run(ctx *pipeline.Context) error {
	plan := ctx.Plan
	if plan == nil {
		return nil
	}

	if plan.AddLabel != "" {
		added, err := s.addLabelIfMissing(ctx, plan.AddLabel, plan.AddLabelAliases)
		if err != nil {
			return err
		}
		if added {
			ctx.Result.LabelAdded = plan.AddLabel
			ctx.Result.DidLabelChange = true
		}
	}

	if len(plan.RemoveLabels) > 0 {
		removed, err := s.removeLabelsIfPresent(ctx, plan.RemoveLabels)
		if err != nil {
			return err
		}
		if len(removed) > 0 {
			ctx.Result.LabelsRemoved = removed
			ctx.Result.DidLabelChange = true
		}
	}

	return nil
}

// addLabelIfMissing adds label unless the pull request already carries it or
// one of its aliases (case-insensitive).
func (s *PRLabeler) addLabelIfMissing(ctx *pipeline.Context, label string, aliases []string) (bool, error) {
	pr := ctx.PullRequest

	acceptable := append([]string{label}, aliases...)
	for _, existing := range pr.Labels {
		if containsFold(acceptable, existing) {
			log.Printf("[pr_labeler] Label already present: %s", existing)
			return false, nil
		}
	}

	if s.dryRun {
		log.Printf("[pr_labeler] DRY RUN: Would add label: %s", label)
		return false, nil
	}

	if err := s.github.AddLabels(ctx.Ctx, pr.Org, pr.Repo, pr.Number, []string{label}); err != nil {
		return false, err
	}
	pr.Labels = append(pr.Labels, label)
	log.Printf("[pr_labeler] Added label %q to PR #%d", label, pr.Number)
	return true, nil
}

// removeLabelsIfPresent removes only the labels the pull request carries,
// using the pull request's spelling. A label that vanished meanwhile counts
// as already removed.
func (s *PRLabeler) removeLabelsIfPresent(ctx *pipeline.Context, labels []string) ([]string, error) {
	pr := ctx.PullRequest
	var removed []string

	for _, want := range labels {
		present := ""
		for _, existing := range pr.Labels {
			if strings.EqualFold(existing, want) {
				present = existing
				break
			}
		}
		if present == "" {
			continue
		}

		if s.dryRun {
			log.Printf("[pr_labeler] DRY RUN: Would remove label: %s", present)
			continue
		}

		err := s.github.RemoveLabel(ctx.Ctx, pr.Org, pr.Repo, pr.Number, present)
		if err != nil {
			if similiGithub.IsNotFound(err) {
				log.Printf("[pr_labeler] Label %q already removed", present)
				continue
			}
			return removed, err
		}
		removed = append(removed, present)
		log.Printf("[pr_labeler] Removed label %q from PR #%d", present, pr.Number)
	}

	if len(removed) > 0 {
		kept := pr.Labels[:0]
		for _, existing := range pr.Labels {
			if !containsFold(removed, existing) {
				kept = append(kept, existing)
			}
		}
		pr.Labels = kept
	}
	return removed, nil
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
