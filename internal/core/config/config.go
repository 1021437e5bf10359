// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-03-05

// Package config handles loading, merging and validating the automation configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/similigh/simili-sync/internal/core/rules"
	"github.com/similigh/simili-sync/internal/core/status"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config validation failed")

// DefaultConfigPath is where the action looks when no path is given.
const DefaultConfigPath = ".github/automation.yml"

// Config is the root configuration structure.
type Config struct {
	// Extends allows inheriting from a remote config (e.g., "org/repo@branch").
	Extends string `yaml:"extends,omitempty"`

	// IssueRepo is the single repository that linked issues live in.
	IssueRepo IssueRepoConfig `yaml:"issue_repo"`

	// Project selects the project board and its status field.
	Project ProjectConfig `yaml:"project"`

	// Labels holds the pull request label names used by rules.
	Labels LabelsConfig `yaml:"labels"`

	// Rules is the ordered rule table.
	Rules []rules.Rule `yaml:"rules"`

	// Workflow is a preset workflow name (e.g., "pr-sync").
	Workflow string `yaml:"workflow,omitempty"`

	// Steps is a custom list of pipeline steps (overrides workflow).
	Steps []string `yaml:"steps,omitempty"`

	// BotUsers lists extra logins whose events are ignored.
	BotUsers []string `yaml:"bot_users,omitempty"`

	// SkipDrafts ignores draft pull requests until they are marked ready for review.
	SkipDrafts bool `yaml:"skip_drafts,omitempty"`
}

// IssueRepoConfig identifies the issue repository.
type IssueRepoConfig struct {
	Owner string `yaml:"owner"`
	Name  string `yaml:"name"`
}

// ProjectConfig identifies a project board by name or number.
type ProjectConfig struct {
	Owner       string   `yaml:"owner"`
	Name        string   `yaml:"name,omitempty"`
	Number      int      `yaml:"number,omitempty"`
	StatusField string   `yaml:"status_field"`
	StatusOrder []string `yaml:"status_order"`
}

// LabelsConfig holds label names.
type LabelsConfig struct {
	ReadyForReview    string   `yaml:"ready_for_review"`
	ReadyForReviewAny []string `yaml:"ready_for_review_any,omitempty"`
}

// Load reads a config file from the given path and expands environment variables.
// The result is not validated; see LoadWithInheritance.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return parseRaw(data)
}

func parseRaw(data []byte) (*Config, error) {
	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))
	if strings.TrimSpace(expanded) == "" {
		return nil, fmt.Errorf("%w: config file is empty", ErrInvalid)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalid, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadWithInheritance loads a config, resolves the 'extends' chain and validates the result.
// The fetcher function is used to retrieve remote configs.
func LoadWithInheritance(path string, fetcher func(ref string) ([]byte, error)) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if cfg.Extends != "" {
		if fetcher == nil {
			return nil, fmt.Errorf("config extends %q but no fetcher is available", cfg.Extends)
		}

		// Fetch and parse the parent config
		parentData, err := fetcher(cfg.Extends)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch parent config '%s': %w", cfg.Extends, err)
		}

		parentCfg, err := parseRaw(parentData)
		if err != nil {
			return nil, fmt.Errorf("failed to parse parent config: %w", err)
		}

		// Merge: child overrides parent
		cfg = mergeConfigs(parentCfg, cfg)
		cfg.applyDefaults()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigPath searches for a config file in standard locations.
// Relative paths are resolved against GITHUB_WORKSPACE when it is set.
func FindConfigPath(explicit string) string {
	workspace := os.Getenv("GITHUB_WORKSPACE")
	resolve := func(p string) string {
		if filepath.IsAbs(p) || workspace == "" {
			return p
		}
		return filepath.Join(workspace, p)
	}

	if explicit != "" {
		p := resolve(explicit)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		return ""
	}

	// Search in common locations
	candidates := []string{
		DefaultConfigPath,
		".github/automation.yaml",
		".github/simili-sync.yaml",
		".github/simili-sync.yml",
	}

	for _, c := range candidates {
		p := resolve(c)
		if _, err := os.Stat(p); err == nil {
			abs, _ := filepath.Abs(p)
			return abs
		}
	}

	return ""
}

// StatusOrder returns the configured status order.
// It is only meaningful on a validated config.
func (c *Config) StatusOrder() status.Order {
	return status.Order(c.Project.StatusOrder)
}

// applyDefaults sets default values for unset fields.
func (c *Config) applyDefaults() {
	if c.Project.Owner == "" {
		c.Project.Owner = c.IssueRepo.Owner
	}
}

// Validate checks the loaded configuration for structural errors.
func (c *Config) Validate() error {
	required := []struct {
		value string
		name  string
	}{
		{c.IssueRepo.Owner, "issue_repo.owner"},
		{c.IssueRepo.Name, "issue_repo.name"},
		{c.Project.Owner, "project.owner"},
		{c.Project.StatusField, "project.status_field"},
		{c.Labels.ReadyForReview, "labels.ready_for_review"},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s must be a non-empty string", ErrInvalid, r.name)
		}
	}

	if strings.TrimSpace(c.Project.Name) == "" && c.Project.Number <= 0 {
		return fmt.Errorf("%w: project.name or project.number must be provided", ErrInvalid)
	}

	order, err := status.NewOrder(c.Project.StatusOrder)
	if err != nil {
		return fmt.Errorf("%w: project.status_order: %v", ErrInvalid, err)
	}

	if c.Rules == nil {
		return fmt.Errorf("%w: rules must be an array", ErrInvalid)
	}

	for i, rule := range c.Rules {
		if strings.TrimSpace(rule.On.Event) == "" {
			return fmt.Errorf("%w: rules[%d].on.event must be a non-empty string", ErrInvalid, i)
		}
		if len(rule.On.Actions) == 0 {
			return fmt.Errorf("%w: rules[%d].on.actions must be a non-empty array", ErrInvalid, i)
		}
		for j, effect := range rule.Do {
			target, ok := effect.(rules.EnsureStatusAtLeast)
			if !ok {
				continue
			}
			if !order.Contains(target.Status) {
				return fmt.Errorf("%w: rules[%d].do[%d]: status %q is not in project.status_order",
					ErrInvalid, i, j, target.Status)
			}
		}
	}

	return nil
}

// mergeConfigs merges a child config onto a parent config.
// Non-zero values in child override parent.
func mergeConfigs(parent, child *Config) *Config {
	result := *parent
	result.Extends = ""

	// String fields: override if non-empty
	if child.Workflow != "" {
		result.Workflow = child.Workflow
	}
	if len(child.Steps) > 0 {
		result.Steps = child.Steps
	}

	if child.IssueRepo.Owner != "" {
		result.IssueRepo.Owner = child.IssueRepo.Owner
	}
	if child.IssueRepo.Name != "" {
		result.IssueRepo.Name = child.IssueRepo.Name
	}

	// Project: name and number select the same thing, so a child setting
	// either replaces both.
	if child.Project.Owner != "" {
		result.Project.Owner = child.Project.Owner
	}
	if child.Project.Name != "" || child.Project.Number != 0 {
		result.Project.Name = child.Project.Name
		result.Project.Number = child.Project.Number
	}
	if child.Project.StatusField != "" {
		result.Project.StatusField = child.Project.StatusField
	}
	if len(child.Project.StatusOrder) > 0 {
		result.Project.StatusOrder = child.Project.StatusOrder
	}

	if child.Labels.ReadyForReview != "" {
		result.Labels.ReadyForReview = child.Labels.ReadyForReview
	}
	if len(child.Labels.ReadyForReviewAny) > 0 {
		result.Labels.ReadyForReviewAny = child.Labels.ReadyForReviewAny
	}

	// Rules and bot users: child completely overrides if non-empty
	if len(child.Rules) > 0 {
		result.Rules = child.Rules
	}
	if len(child.BotUsers) > 0 {
		result.BotUsers = child.BotUsers
	}
	if child.SkipDrafts {
		result.SkipDrafts = true
	}

	return &result
}

// ParseExtendsRef parses "org/repo@branch" into components.
func ParseExtendsRef(ref string) (org, repo, branch, path string, err error) {
	// Format: org/repo@branch or org/repo@branch:path
	parts := strings.SplitN(ref, "@", 2)
	if len(parts) != 2 {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo@branch)", ref)
	}

	orgRepo := strings.SplitN(parts[0], "/", 2)
	if len(orgRepo) != 2 {
		return "", "", "", "", fmt.Errorf("invalid extends reference: %s (expected org/repo)", ref)
	}

	org = orgRepo[0]
	repo = orgRepo[1]

	// Check for path
	branchPath := strings.SplitN(parts[1], ":", 2)
	branch = branchPath[0]
	if len(branchPath) == 2 {
		path = branchPath[1]
	} else {
		path = DefaultConfigPath
	}

	return org, repo, branch, path, nil
}
