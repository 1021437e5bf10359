// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-04
// Last Modified: 2026-03-06

package steps

import (
	"log"
	"strings"

	"github.com/similigh/simili-sync/internal/core/pipeline"
	"github.com/similigh/simili-sync/internal/core/rules"
)

// RuleRouter builds the action plan for the event from the rule table.
type RuleRouter struct{}

// NewRuleRouter creates a new rule router step.
func NewRuleRouter(deps *pipeline.Dependencies) *RuleRouter {
	return &RuleRouter{}
}

// Name returns the step name.
func (s *RuleRouter) Name() string {
	return "rule_router"
}

// Run stores the merged plan on the context, or skips when no rule matches.
func (s *RuleRouter) Run(ctx *pipeline.Context) error {
	plan, err := rules.Build(ctx.Config.Rules, ctx.Config.StatusOrder(), ctx.Event.Name, ctx.Event.Action)
	if err != nil {
		return err
	}
	if plan == nil {
		log.Printf("[rule_router] No matching rules for %s", ctx.Event.Trigger())
		return ctx.Skip("no matching rules for " + ctx.Event.Trigger())
	}

	// The ready-for-review label inherits the configured aliases.
	labels := ctx.Config.Labels
	if plan.AddLabel != "" && len(plan.AddLabelAliases) == 0 &&
		strings.EqualFold(plan.AddLabel, labels.ReadyForReview) && len(labels.ReadyForReviewAny) > 0 {
		plan.AddLabelAliases = append([]string(nil), labels.ReadyForReviewAny...)
	}

	ctx.Plan = plan
	ctx.Result.TargetStatus = plan.TargetStatus
	log.Printf("[rule_router] Plan for %s: label=%q remove=%v assign=%v tracked=%v status=%q audit=%v",
		ctx.Event.Trigger(), plan.AddLabel, plan.RemoveLabels, plan.AssignAuthor,
		plan.EnsureTracked, plan.TargetStatus, plan.AuditOnChange)
	return nil
}
