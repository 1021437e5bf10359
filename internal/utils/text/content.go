// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-13
// Last Modified: 2026-03-06

// Package text builds the comment bodies posted on pull requests and issues.
package text

import (
	"fmt"
	"strings"
	"time"
)

// AuditEntry describes one change applied to a linked issue.
type AuditEntry struct {
	Change    string // e.g. "Status updated: In review"
	Trigger   string // event/action
	PRURL     string
	Repo      string // owner/name of the pull request repository
	Details   string // optional
	RunID     string // optional
	Timestamp time.Time
}

// BuildAuditComment renders the audit comment for an applied change.
// Empty optional fields are omitted.
func BuildAuditComment(e AuditEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🔄 Automation: %s\n", e.Change)
	fmt.Fprintf(&sb, "- Trigger: %s\n", e.Trigger)
	fmt.Fprintf(&sb, "- PR: %s\n", e.PRURL)
	fmt.Fprintf(&sb, "- Repo: %s\n", e.Repo)

	if d := strings.TrimSpace(e.Details); d != "" {
		fmt.Fprintf(&sb, "- Details: %s\n", d)
	}
	if e.RunID != "" {
		fmt.Fprintf(&sb, "- Run: %s\n", e.RunID)
	}

	fmt.Fprintf(&sb, "- Timestamp: %s", e.Timestamp.UTC().Format(time.RFC3339))
	return sb.String()
}

// BuildMissingTargetsComment explains the accepted Targets formats for the
// configured issue repository.
func BuildMissingTargetsComment(owner, repo, reason string) string {
	var sb strings.Builder
	sb.WriteString("⚠️ Automation: Missing Targets line.\n")
	if reason != "" {
		fmt.Fprintf(&sb, "Reason: %s\n", reason)
	}
	sb.WriteString("Please add one of:\n")
	fmt.Fprintf(&sb, "- Targets: %s/%s#<issue_id>\n", owner, repo)
	sb.WriteString("- Targets: #<issue_id> (if issues are in the same repo)")
	return sb.String()
}

// StatusTransition renders "previous -> new", using "(none)" for an unset status.
func StatusTransition(previous, next string) string {
	if previous == "" {
		previous = "(none)"
	}
	return previous + " -> " + next
}
