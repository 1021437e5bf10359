// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-03-06

package steps

import (
	"github.com/similigh/simili-sync/internal/core/pipeline"
)

// RegisterAll registers all built-in steps with the registry.
func RegisterAll(r *pipeline.Registry) {
	r.Register("gatekeeper", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewGatekeeper(deps), nil
	})

	r.Register("rule_router", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewRuleRouter(deps), nil
	})

	r.Register("target_resolver", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		step, err := NewTargetResolver(deps)
		if err != nil {
			return nil, err
		}
		return step, nil
	})

	r.Register("pr_labeler", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		step, err := NewPRLabeler(deps)
		if err != nil {
			return nil, err
		}
		return step, nil
	})

	r.Register("issue_assigner", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		step, err := NewIssueAssigner(deps)
		if err != nil {
			return nil, err
		}
		return step, nil
	})

	r.Register("project_sync", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		step, err := NewProjectSync(deps)
		if err != nil {
			return nil, err
		}
		return step, nil
	})

	r.Register("auditor", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		step, err := NewAuditor(deps)
		if err != nil {
			return nil, err
		}
		return step, nil
	})
}
