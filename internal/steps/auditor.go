// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-04
// Last Modified: 2026-03-06

package steps

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/similigh/simili-sync/internal/core/pipeline"
	"github.com/similigh/simili-sync/internal/utils/text"
)

// Auditor posts one comment on the linked issue for every applied change.
type Auditor struct {
	github pipeline.GitHubAPI
	dryRun bool
	now    func() time.Time
}

// NewAuditor creates a new auditor step.
func NewAuditor(deps *pipeline.Dependencies) (*Auditor, error) {
	if deps.GitHub == nil {
		return nil, fmt.Errorf("github client is required")
	}
	return &Auditor{github: deps.GitHub, dryRun: deps.DryRun, now: time.Now}, nil
}

// Name returns the step name.
func (s *Auditor) Name() string {
	return "auditor"
}

// Run comments on the issue when the plan asks for an audit trail.
func (s *Auditor) Run(ctx *pipeline.Context) error {
	if ctx.Plan == nil || !ctx.Plan.AuditOnChange || ctx.Issue == nil {
		return nil
	}

	for _, entry := range s.entries(ctx) {
		body := text.BuildAuditComment(entry)
		if s.dryRun {
			log.Printf("[auditor] DRY RUN: Would comment on issue #%d:\n%s", ctx.Issue.Number, body)
			continue
		}
		if err := s.github.CreateComment(ctx.Ctx, ctx.Issue.Org, ctx.Issue.Repo, ctx.Issue.Number, body); err != nil {
			return err
		}
		ctx.Result.CommentsPosted++
	}
	return nil
}

func (s *Auditor) entries(ctx *pipeline.Context) []text.AuditEntry {
	result := ctx.Result
	base := text.AuditEntry{
		Trigger:   ctx.Event.Trigger(),
		PRURL:     ctx.PullRequest.URL,
		Repo:      ctx.PullRequest.FullRepo(),
		RunID:     ctx.RunID,
		Timestamp: s.now(),
	}

	var entries []text.AuditEntry
	if result.LabelAdded != "" {
		e := base
		e.Change = "Label added: " + result.LabelAdded
		entries = append(entries, e)
	}
	if len(result.LabelsRemoved) > 0 {
		e := base
		e.Change = "Labels removed: " + strings.Join(result.LabelsRemoved, ", ")
		entries = append(entries, e)
	}
	if result.DidAssignmentChange {
		e := base
		e.Change = "Issue assignee added: " + ctx.PullRequest.Author
		entries = append(entries, e)
	}
	if result.DidStatusChange {
		e := base
		e.Change = "Status updated: " + result.NewStatus
		e.Details = text.StatusTransition(result.PreviousStatus, result.NewStatus)
		entries = append(entries, e)
	}
	return entries
}
