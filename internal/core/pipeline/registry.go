// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-03-06

// Package pipeline provides step registration and preset workflow building.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/go-github/v60/github"

	"github.com/similigh/simili-sync/internal/projects"
)

// Registry holds registered step factories.
// Step factories create Step instances, allowing for dependency injection.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]StepFactory
}

// StepFactory is a function that creates a Step.
// It receives dependencies (like clients, config) as parameters.
type StepFactory func(deps *Dependencies) (Step, error)

// GitHubAPI is the part of the GitHub client the steps use.
// *similiGithub.Client implements it.
type GitHubAPI interface {
	GetIssue(ctx context.Context, org, repo string, number int) (*github.Issue, error)
	CreateComment(ctx context.Context, org, repo string, number int, body string) error
	AddLabels(ctx context.Context, org, repo string, number int, labels []string) error
	RemoveLabel(ctx context.Context, org, repo string, number int, label string) error
	AddAssignees(ctx context.Context, org, repo string, number int, assignees []string) error
}

// ProjectSync links issues to the project board and advances their status.
// *projects.Syncer implements it.
type ProjectSync interface {
	EnsureTracked(ctx context.Context, issue projects.IssueRef) (*projects.ItemLink, error)
	AdvanceStatus(ctx context.Context, itemID, current, target string) (*projects.Transition, error)
}

// Dependencies holds the dependencies that can be injected into steps.
type Dependencies struct {
	GitHub   GitHubAPI
	Projects ProjectSync
	DryRun   bool
}

// NewRegistry creates a new step registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]StepFactory),
	}
}

// Register adds a step factory to the registry.
func (r *Registry) Register(name string, factory StepFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get retrieves a step factory by name.
func (r *Registry) Get(name string) (StepFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[name]
	return factory, ok
}

// Names returns the registered step names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildFromNames creates a pipeline from a list of step names.
func (r *Registry) BuildFromNames(names []string, deps *Dependencies) (*Pipeline, error) {
	var steps []Step
	for _, name := range names {
		factory, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown step: %s", name)
		}
		step, err := factory(deps)
		if err != nil {
			return nil, fmt.Errorf("failed to create step '%s': %w", name, err)
		}
		steps = append(steps, step)
	}
	return New(steps...), nil
}

// DefaultWorkflow is the preset used when config names none.
const DefaultWorkflow = "pr-sync"

// Presets defines the built-in workflow presets.
var Presets = map[string][]string{
	// pr-sync: label, assign, sync the board and audit
	"pr-sync": {
		"gatekeeper",
		"rule_router",
		"target_resolver",
		"pr_labeler",
		"issue_assigner",
		"project_sync",
		"auditor",
	},

	// labels-only: pull request labels, no issue or board changes
	"labels-only": {
		"gatekeeper",
		"rule_router",
		"target_resolver",
		"pr_labeler",
	},

	// board-only: project board sync with audit
	"board-only": {
		"gatekeeper",
		"rule_router",
		"target_resolver",
		"project_sync",
		"auditor",
	},
}

// GetPreset returns the step names for a preset workflow.
func GetPreset(name string) ([]string, bool) {
	steps, ok := Presets[name]
	return steps, ok
}

// ResolveSteps determines the steps to use based on config.
// Priority: explicit steps > workflow preset > default
func ResolveSteps(explicitSteps []string, workflow string) []string {
	if len(explicitSteps) > 0 {
		return explicitSteps
	}
	if workflow != "" {
		if preset, ok := GetPreset(workflow); ok {
			return preset
		}
	}
	return Presets[DefaultWorkflow]
}
