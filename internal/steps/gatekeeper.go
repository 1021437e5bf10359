// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-03-06

// Package steps contains the modular "Lego block" pipeline steps.
// Each step implements the pipeline.Step interface.
package steps

import (
	"fmt"
	"log"
	"strings"

	"github.com/similigh/simili-sync/internal/core/pipeline"
)

// supportedEvents are the pull-request-like events the rules can react to.
var supportedEvents = map[string]bool{
	"pull_request":        true,
	"pull_request_target": true,
}

// Gatekeeper rejects events the pipeline cannot handle.
type Gatekeeper struct{}

// NewGatekeeper creates a new gatekeeper step.
func NewGatekeeper(deps *pipeline.Dependencies) *Gatekeeper {
	return &Gatekeeper{}
}

// Name returns the step name.
func (s *Gatekeeper) Name() string {
	return "gatekeeper"
}

// Run checks the event type, the payload and the sender.
func (s *Gatekeeper) Run(ctx *pipeline.Context) error {
	log.Printf("[gatekeeper] Run %s: event=%q action=%q", ctx.RunID, ctx.Event.Name, ctx.Event.Action)

	if !supportedEvents[ctx.Event.Name] {
		log.Printf("[gatekeeper] Unsupported event: %s", ctx.Event.Name)
		return ctx.Skip("unsupported event: " + ctx.Event.Name)
	}

	if ctx.PullRequest == nil {
		return fmt.Errorf("missing pull_request in event payload")
	}

	// Skip events caused by our own automation or configured bots.
	if isBotAuthor(ctx.Event.Sender, ctx.Config.BotUsers) {
		log.Printf("[gatekeeper] Skipping event from bot author %q", ctx.Event.Sender)
		return ctx.Skip("event triggered by bot")
	}

	pr := ctx.PullRequest
	if ctx.Config.SkipDrafts && pr.Draft && ctx.Event.Action != "ready_for_review" {
		log.Printf("[gatekeeper] Skipping draft pull request #%d", pr.Number)
		return ctx.Skip("draft pull request")
	}

	log.Printf("[gatekeeper] Pull request %s#%d %q accepted", pr.FullRepo(), pr.Number, pr.Title)
	return nil
}

// isBotAuthor returns true if the given username is this automation or is in
// the user-configured bot_users list.
func isBotAuthor(author string, configBotUsers []string) bool {
	if author == "" {
		return false
	}
	if strings.HasPrefix(strings.ToLower(author), "simili-sync") {
		return true
	}
	for _, u := range configBotUsers {
		if strings.EqualFold(author, u) {
			return true
		}
	}
	return false
}
