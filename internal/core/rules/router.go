// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-02
// Last Modified: 2026-03-04

package rules

import (
	"fmt"
	"strings"

	"github.com/similigh/simili-sync/internal/core/status"
)

// Plan is the merged set of effects to apply for one event.
type Plan struct {
	AddLabel        string   `json:"add_label,omitempty" yaml:"add_label,omitempty"`
	AddLabelAliases []string `json:"add_label_aliases,omitempty" yaml:"add_label_aliases,omitempty"`
	RemoveLabels    []string `json:"remove_labels,omitempty" yaml:"remove_labels,omitempty"`
	AssignAuthor    bool     `json:"assign_author" yaml:"assign_author"`
	EnsureTracked   bool     `json:"ensure_tracked" yaml:"ensure_tracked"`
	TargetStatus    string   `json:"target_status,omitempty" yaml:"target_status,omitempty"`
	AuditOnChange   bool     `json:"audit_on_change" yaml:"audit_on_change"`
}

// NeedsProject reports whether the plan touches the project board.
func (p *Plan) NeedsProject() bool {
	return p.EnsureTracked || p.TargetStatus != ""
}

// Build folds the effects of every rule matching event/action into one Plan.
// It returns nil, nil when no rule matches.
//
// Effects are applied in declaration order. Single-valued effects (label to add,
// assign, tracked, audit) are last-writer-wins across all matching rules, so two
// rules that both add a label let the later one win. Status targets merge with
// order.Max and never downgrade. Labels to remove accumulate.
func Build(rules []Rule, order status.Order, event, action string) (*Plan, error) {
	var plan *Plan

	for i, rule := range rules {
		if !rule.Matches(event, action) {
			continue
		}
		if plan == nil {
			plan = &Plan{}
		}
		for j, effect := range rule.Do {
			if err := effect.apply(plan, order); err != nil {
				return nil, fmt.Errorf("rules[%d].do[%d] (%s): %w", i, j, effect.Key(), err)
			}
		}
	}

	return plan, nil
}

func (e EnsureTracked) apply(p *Plan, _ status.Order) error {
	p.EnsureTracked = e.Enabled
	return nil
}

func (e EnsureStatusAtLeast) apply(p *Plan, order status.Order) error {
	if p.TargetStatus == "" {
		if _, err := order.Index(e.Status); err != nil {
			return err
		}
		p.TargetStatus = e.Status
		return nil
	}

	highest, err := order.Max(p.TargetStatus, e.Status)
	if err != nil {
		return err
	}
	p.TargetStatus = highest
	return nil
}

func (e AddLabelIfMissing) apply(p *Plan, _ status.Order) error {
	p.AddLabel = e.Label
	p.AddLabelAliases = append([]string(nil), e.Aliases...)
	return nil
}

func (e RemoveLabelsIfPresent) apply(p *Plan, _ status.Order) error {
	for _, label := range e.Labels {
		if !containsFold(p.RemoveLabels, label) {
			p.RemoveLabels = append(p.RemoveLabels, label)
		}
	}
	return nil
}

func (e AssignAuthor) apply(p *Plan, _ status.Order) error {
	p.AssignAuthor = e.Enabled
	return nil
}

func (e AuditOnChange) apply(p *Plan, _ status.Order) error {
	p.AuditOnChange = e.Enabled
	return nil
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
