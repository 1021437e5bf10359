// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-03-05

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/similigh/simili-sync/internal/core/rules"
)

const validYAML = `
issue_repo:
  owner: coloredcow-admin
  name: sneha-lms
project:
  owner: coloredcow-admin
  name: SNEHA LMS
  status_field: Status
  status_order: ["Backlog", "Ready", "In Progress", "In review", "Completed"]
labels:
  ready_for_review: Ready For Review
  ready_for_review_any: ["Ready For Review", "status: ready for review"]
rules:
  - on:
      event: pull_request
      actions: [opened, reopened]
    do:
      - ensure_issue_in_project: true
      - ensure_status_at_least: "In Progress"
      - assign_issue_to_pr_author: true
  - on:
      event: pull_request
      actions: [ready_for_review]
    do:
      - ensure_status_at_least: "In review"
      - add_pr_label_if_missing: Ready For Review
      - audit_on_change: true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "automation.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := LoadWithInheritance(writeConfig(t, validYAML), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.IssueRepo.Owner != "coloredcow-admin" || cfg.IssueRepo.Name != "sneha-lms" {
		t.Errorf("unexpected issue repo: %+v", cfg.IssueRepo)
	}
	if cfg.Project.Name != "SNEHA LMS" {
		t.Errorf("Project.Name = %q", cfg.Project.Name)
	}
	if len(cfg.StatusOrder()) != 5 {
		t.Errorf("expected 5 statuses, got %v", cfg.StatusOrder())
	}
	if len(cfg.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(cfg.Rules))
	}
	if got := cfg.Rules[1].Do[0]; got != (rules.EnsureStatusAtLeast{Status: "In review"}) {
		t.Errorf("rules[1].do[0] = %#v", got)
	}
	if len(cfg.Labels.ReadyForReviewAny) != 2 {
		t.Errorf("ReadyForReviewAny = %v", cfg.Labels.ReadyForReviewAny)
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("SYNC_PROJECT_NAME", "Roadmap")
	content := strings.Replace(validYAML, "name: SNEHA LMS", "name: ${SYNC_PROJECT_NAME}", 1)

	cfg, err := LoadWithInheritance(writeConfig(t, content), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Project.Name != "Roadmap" {
		t.Errorf("Project.Name = %q, want Roadmap", cfg.Project.Name)
	}
}

func TestValidateRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantMsg string
	}{
		{"missing issue repo name", func(c *Config) { c.IssueRepo.Name = "" }, "issue_repo.name"},
		{"missing status field", func(c *Config) { c.Project.StatusField = "" }, "project.status_field"},
		{"no project selector", func(c *Config) { c.Project.Name = ""; c.Project.Number = 0 }, "project.name or project.number"},
		{"empty status order", func(c *Config) { c.Project.StatusOrder = nil }, "status_order"},
		{"duplicate status", func(c *Config) { c.Project.StatusOrder = []string{"Ready", "Ready"} }, "more than once"},
		{"missing label", func(c *Config) { c.Labels.ReadyForReview = " " }, "labels.ready_for_review"},
		{"rules missing", func(c *Config) { c.Rules = nil }, "rules must be an array"},
		{"rule without actions", func(c *Config) { c.Rules[0].On.Actions = nil }, "rules[0].on.actions"},
		{"unknown status in rule", func(c *Config) {
			c.Rules[0].Do = append(c.Rules[0].Do, rules.EnsureStatusAtLeast{Status: "Shipped"})
		}, "Shipped"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseRaw([]byte(validYAML))
			if err != nil {
				t.Fatalf("failed to parse base config: %v", err)
			}
			tt.mutate(cfg)

			err = cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestParseRawRejectsUnknownEffect(t *testing.T) {
	content := validYAML + `
  - on: {event: pull_request, actions: [closed]}
    do:
      - delete_everything: true
`
	if _, err := parseRaw([]byte(content)); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid for unknown effect, got %v", err)
	}
}

func TestProjectOwnerDefaultsToIssueRepoOwner(t *testing.T) {
	cfg := &Config{IssueRepo: IssueRepoConfig{Owner: "acme", Name: "issues"}}
	cfg.applyDefaults()

	if cfg.Project.Owner != "acme" {
		t.Errorf("Project.Owner = %q, want acme", cfg.Project.Owner)
	}
}

func TestLoadWithInheritance(t *testing.T) {
	child := `
extends: acme/.github@main
project:
  number: 7
labels:
  ready_for_review: Needs Review
skip_drafts: true
`
	var fetchedRef string
	fetcher := func(ref string) ([]byte, error) {
		fetchedRef = ref
		return []byte(validYAML), nil
	}

	cfg, err := LoadWithInheritance(writeConfig(t, child), fetcher)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fetchedRef != "acme/.github@main" {
		t.Errorf("fetcher called with %q", fetchedRef)
	}
	if cfg.Project.Number != 7 || cfg.Project.Name != "" {
		t.Errorf("expected child project selector to replace parent, got %+v", cfg.Project)
	}
	if cfg.Project.StatusField != "Status" {
		t.Errorf("expected parent status field, got %q", cfg.Project.StatusField)
	}
	if cfg.Labels.ReadyForReview != "Needs Review" {
		t.Errorf("expected child label, got %q", cfg.Labels.ReadyForReview)
	}
	if len(cfg.Rules) != 2 {
		t.Errorf("expected parent rules to be inherited, got %d", len(cfg.Rules))
	}
	if !cfg.SkipDrafts {
		t.Error("expected child skip_drafts to apply")
	}
}

func TestLoadWithInheritanceRequiresFetcher(t *testing.T) {
	if _, err := LoadWithInheritance(writeConfig(t, "extends: acme/.github@main\n"), nil); err == nil {
		t.Error("expected error when extends is set without a fetcher")
	}
}

func TestFindConfigPath(t *testing.T) {
	workspace := t.TempDir()
	t.Setenv("GITHUB_WORKSPACE", workspace)

	if got := FindConfigPath(""); got != "" {
		t.Errorf("expected no config, got %q", got)
	}

	if err := os.MkdirAll(filepath.Join(workspace, ".github"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(workspace, DefaultConfigPath), []byte(validYAML), 0644); err != nil {
		t.Fatal(err)
	}

	if got := FindConfigPath(""); got != filepath.Join(workspace, DefaultConfigPath) {
		t.Errorf("FindConfigPath(\"\") = %q", got)
	}
	if got := FindConfigPath(DefaultConfigPath); got != filepath.Join(workspace, DefaultConfigPath) {
		t.Errorf("FindConfigPath(explicit) = %q", got)
	}
	if got := FindConfigPath("missing.yml"); got != "" {
		t.Errorf("expected missing explicit path to return empty, got %q", got)
	}
}

// TestParseExtendsRef verifies extends reference parsing.
func TestParseExtendsRef(t *testing.T) {
	tests := []struct {
		name        string
		ref         string
		wantOrg     string
		wantRepo    string
		wantBranch  string
		wantPath    string
		expectError bool
	}{
		{
			name:       "valid ref with default path",
			ref:        "org/repo@main",
			wantOrg:    "org",
			wantRepo:   "repo",
			wantBranch: "main",
			wantPath:   DefaultConfigPath,
		},
		{
			name:       "valid ref with custom path",
			ref:        "org/repo@main:custom/path.yaml",
			wantOrg:    "org",
			wantRepo:   "repo",
			wantBranch: "main",
			wantPath:   "custom/path.yaml",
		},
		{
			name:        "invalid ref missing branch",
			ref:         "org/repo",
			expectError: true,
		},
		{
			name:        "invalid ref missing repo",
			ref:         "org@main",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			org, repo, branch, path, err := ParseExtendsRef(tt.ref)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for ref %s, got nil", tt.ref)
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}

			if org != tt.wantOrg || repo != tt.wantRepo || branch != tt.wantBranch || path != tt.wantPath {
				t.Errorf("ParseExtendsRef(%q) = %s, %s, %s, %s", tt.ref, org, repo, branch, path)
			}
		})
	}
}
