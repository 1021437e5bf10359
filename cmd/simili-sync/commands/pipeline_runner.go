// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-02
// Last Modified: 2026-03-06

package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/similigh/simili-sync/internal/core/pipeline"
	"github.com/similigh/simili-sync/internal/steps"
	"github.com/similigh/simili-sync/internal/tui"
)

// Wrapper step to send status updates
type statusReportingStep struct {
	inner      pipeline.Step
	statusChan chan<- tui.PipelineStatusMsg
}

func (s *statusReportingStep) Name() string {
	return s.inner.Name()
}

func (s *statusReportingStep) Run(ctx *pipeline.Context) error {
	s.statusChan <- tui.PipelineStatusMsg{Step: s.Name(), Status: tui.StatusStarted}

	err := s.inner.Run(ctx)

	if err != nil {
		if errors.Is(err, pipeline.ErrSkipPipeline) {
			s.statusChan <- tui.PipelineStatusMsg{Step: s.Name(), Status: tui.StatusSkipped, Message: ctx.Result.SkipReason}
			return err
		}
		s.statusChan <- tui.PipelineStatusMsg{Step: s.Name(), Status: tui.StatusError, Message: err.Error()}
		return err
	}

	s.statusChan <- tui.PipelineStatusMsg{Step: s.Name(), Status: tui.StatusSuccess, Message: "Completed"}
	return nil
}

// buildPipeline creates the configured steps from the registry.
func buildPipeline(deps *pipeline.Dependencies, stepNames []string) (*pipeline.Pipeline, error) {
	registry := pipeline.NewRegistry()
	steps.RegisterAll(registry)
	return registry.BuildFromNames(stepNames, deps)
}

// runPipelineWithTUI runs the pipeline while a bubbletea program shows
// progress. It returns the pipeline error, if any.
func runPipelineWithTUI(p *pipeline.Pipeline, pCtx *pipeline.Context, stepNames []string) error {
	// Two messages per step, so sends never block once the TUI has quit.
	statusChan := make(chan tui.PipelineStatusMsg, 2*len(p.Steps()))

	reporting := pipeline.New()
	for _, step := range p.Steps() {
		reporting.AddStep(&statusReportingStep{inner: step, statusChan: statusChan})
	}

	title := pCtx.Event.Trigger()
	if pCtx.PullRequest != nil {
		title = pCtx.PullRequest.FullRepo() + " · " + title
	}
	program := tea.NewProgram(tui.NewModel(title, stepNames, statusChan))

	runErr := make(chan error, 1)
	go func() {
		err := reporting.Run(pCtx)
		close(statusChan)

		if err != nil {
			program.Send(tui.ResultMsg{Success: false, Output: err.Error()})
		} else {
			resultBytes, _ := json.MarshalIndent(pCtx.Result, "", "  ")
			program.Send(tui.ResultMsg{Success: true, Output: string(resultBytes)})
		}
		runErr <- err
	}()

	final, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(tui.Model); ok && m.Result() != nil && m.Result().Output != "" {
		fmt.Println("\n" + m.Result().Output)
	}
	return <-runErr
}
