// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-04
// Last Modified: 2026-03-06

package steps

import (
	"fmt"
	"log"

	"github.com/similigh/simili-sync/internal/core/pipeline"
	"github.com/similigh/simili-sync/internal/projects"
)

// ProjectSync puts the linked issue on the project board and moves its
// status forward.
type ProjectSync struct {
	projects pipeline.ProjectSync
}

// NewProjectSync creates a new project sync step.
func NewProjectSync(deps *pipeline.Dependencies) (*ProjectSync, error) {
	if deps.Projects == nil {
		return nil, fmt.Errorf("project syncer is required")
	}
	return &ProjectSync{projects: deps.Projects}, nil
}

// Name returns the step name.
func (s *ProjectSync) Name() string {
	return "project_sync"
}

// Run ensures the item exists and, when the plan has a target status,
// advances it. Status never moves backwards.
func (s *ProjectSync) Run(ctx *pipeline.Context) error {
	if ctx.Plan == nil || !ctx.Plan.NeedsProject() || ctx.Issue == nil {
		return nil
	}
	issue := ctx.Issue

	link, err := s.projects.EnsureTracked(ctx.Ctx, projects.IssueRef{
		NodeID: issue.NodeID,
		Owner:  issue.Org,
		Repo:   issue.Repo,
		Number: issue.Number,
	})
	if err != nil {
		return err
	}
	ctx.Result.ItemID = link.ItemID

	if ctx.Plan.TargetStatus == "" {
		return nil
	}

	transition, err := s.projects.AdvanceStatus(ctx.Ctx, link.ItemID, link.CurrentStatus, ctx.Plan.TargetStatus)
	if err != nil {
		return err
	}

	ctx.Result.DidStatusChange = transition.Changed
	ctx.Result.PreviousStatus = transition.Previous
	ctx.Result.NewStatus = transition.New
	log.Printf("[project_sync] Issue #%d status: changed=%v %q -> %q",
		issue.Number, transition.Changed, transition.Previous, transition.New)
	return nil
}
