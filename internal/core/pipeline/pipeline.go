// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-03-06

// Package pipeline provides the core pipeline engine for simili-sync.
// It defines the Step interface and Context structure used by all pipeline steps.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/similigh/simili-sync/internal/core/config"
	"github.com/similigh/simili-sync/internal/core/rules"
)

// ErrSkipPipeline indicates that the pipeline should stop gracefully.
// This is not an error condition, just an early exit (e.g., no matching rule, missing Targets line).
var ErrSkipPipeline = errors.New("skip remaining pipeline steps")

// Step defines the interface that all pipeline steps must implement.
type Step interface {
	// Name returns the unique identifier for this step.
	Name() string

	// Run executes the step's logic.
	// It should return ErrSkipPipeline to stop the pipeline gracefully,
	// or any other error to indicate failure.
	Run(ctx *Context) error
}

// Event is the webhook event that triggered the run.
type Event struct {
	Name   string // e.g. "pull_request"
	Action string // e.g. "opened"
	Sender string
}

// Trigger returns "event/action" as shown in audit comments.
func (e *Event) Trigger() string {
	return e.Name + "/" + e.Action
}

// PullRequest represents the pull request that triggered the run.
type PullRequest struct {
	Org    string
	Repo   string
	Number int
	Title  string
	Body   string
	Author string
	URL    string
	Labels []string
	Draft  bool
}

// FullRepo returns "org/repo".
func (p *PullRequest) FullRepo() string {
	return p.Org + "/" + p.Repo
}

// Issue is the linked issue the pull request targets.
type Issue struct {
	Org       string
	Repo      string
	Number    int
	NodeID    string
	URL       string
	Assignees []string
}

// Result holds the accumulated results from pipeline execution.
type Result struct {
	IssueNumber         int      `json:"issue_number,omitempty"`
	Skipped             bool     `json:"skipped"`
	SkipReason          string   `json:"skip_reason,omitempty"`
	LabelAdded          string   `json:"label_added,omitempty"`
	LabelsRemoved       []string `json:"labels_removed,omitempty"`
	DidLabelChange      bool     `json:"did_label_change"`
	DidAssignmentChange bool     `json:"did_assignment_change"`
	ItemID              string   `json:"item_id,omitempty"`
	DidStatusChange     bool     `json:"did_status_change"`
	TargetStatus        string   `json:"target_status,omitempty"`
	PreviousStatus      string   `json:"previous_status,omitempty"`
	NewStatus           string   `json:"new_status,omitempty"`
	CommentsPosted      int      `json:"comments_posted"`
}

// Context carries data through the pipeline steps.
type Context struct {
	// Ctx is the Go context for cancellation and timeouts.
	Ctx context.Context

	// RunID identifies this run in logs and audit comments.
	RunID string

	// Event is the triggering event.
	Event *Event

	// PullRequest is the pull request being processed.
	PullRequest *PullRequest

	// Config is the loaded configuration.
	Config *config.Config

	// Plan is the merged action plan, set by the rule router.
	Plan *rules.Plan

	// Issue is the linked issue, set by the target resolver.
	Issue *Issue

	// Result accumulates the processing results.
	Result *Result
}

// NewContext creates a new pipeline context for a pull request event.
func NewContext(ctx context.Context, event *Event, pr *PullRequest, cfg *config.Config) *Context {
	return &Context{
		Ctx:         ctx,
		RunID:       uuid.NewString(),
		Event:       event,
		PullRequest: pr,
		Config:      cfg,
		Result:      &Result{},
	}
}

// Skip marks the run as skipped and returns ErrSkipPipeline.
func (c *Context) Skip(reason string) error {
	c.Result.Skipped = true
	c.Result.SkipReason = reason
	return ErrSkipPipeline
}

// Pipeline executes a sequence of steps.
type Pipeline struct {
	steps []Step
}

// New creates a new pipeline with the given steps.
func New(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Run executes all steps in order.
// Stops on the first error (unless it's ErrSkipPipeline, which is graceful).
func (p *Pipeline) Run(ctx *Context) error {
	for _, step := range p.steps {
		if err := step.Run(ctx); err != nil {
			if errors.Is(err, ErrSkipPipeline) {
				// Graceful early exit
				return nil
			}
			return fmt.Errorf("step '%s' failed: %w", step.Name(), err)
		}
	}
	return nil
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// Steps returns the list of steps (for introspection).
func (p *Pipeline) Steps() []Step {
	return p.steps
}
