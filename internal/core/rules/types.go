// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-02
// Last Modified: 2026-03-04

// Package rules turns the declarative rule table into a single action plan per event.
package rules

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/similigh/simili-sync/internal/core/status"
)

// Trigger selects the events a rule reacts to.
type Trigger struct {
	Event   string   `yaml:"event"`
	Actions []string `yaml:"actions"`
}

// Rule pairs a trigger with the effects it declares, in order.
type Rule struct {
	On Trigger
	Do []Effect
}

// Matches reports whether the rule applies to the given event and action verb.
func (r Rule) Matches(event, action string) bool {
	if r.On.Event != event {
		return false
	}
	for _, a := range r.On.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Effect is one declared outcome of a rule. The set of effects is closed:
// only the types in this package implement it.
type Effect interface {
	// Key is the configuration key the effect is declared with.
	Key() string
	apply(p *Plan, order status.Order) error
}

// EnsureTracked makes sure the linked issue is on the project board.
type EnsureTracked struct {
	Enabled bool
}

// EnsureStatusAtLeast advances the linked item to at least Status.
type EnsureStatusAtLeast struct {
	Status string
}

// AddLabelIfMissing adds Label to the pull request unless it, or any of
// Aliases, is already present.
type AddLabelIfMissing struct {
	Label   string
	Aliases []string
}

// RemoveLabelsIfPresent removes any of Labels currently on the pull request.
type RemoveLabelsIfPresent struct {
	Labels []string
}

// AssignAuthor assigns the pull request author to the linked issue.
type AssignAuthor struct {
	Enabled bool
}

// AuditOnChange posts an audit comment on the linked issue for every applied change.
type AuditOnChange struct {
	Enabled bool
}

// Effect configuration keys.
const (
	KeyEnsureTracked         = "ensure_issue_in_project"
	KeyEnsureStatusAtLeast   = "ensure_status_at_least"
	KeyAddLabelIfMissing     = "add_pr_label_if_missing"
	KeyRemoveLabelsIfPresent = "remove_pr_labels_if_present"
	KeyAssignAuthor          = "assign_issue_to_pr_author"
	KeyAuditOnChange         = "audit_on_change"
)

func (EnsureTracked) Key() string         { return KeyEnsureTracked }
func (EnsureStatusAtLeast) Key() string   { return KeyEnsureStatusAtLeast }
func (AddLabelIfMissing) Key() string     { return KeyAddLabelIfMissing }
func (RemoveLabelsIfPresent) Key() string { return KeyRemoveLabelsIfPresent }
func (AssignAuthor) Key() string          { return KeyAssignAuthor }
func (AuditOnChange) Key() string         { return KeyAuditOnChange }

// UnmarshalYAML decodes a rule of the form:
//
//	on: { event: pull_request, actions: [opened] }
//	do:
//	  - ensure_status_at_least: "In review"
func (r *Rule) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		On Trigger     `yaml:"on"`
		Do []yaml.Node `yaml:"do"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	r.On = raw.On
	r.Do = make([]Effect, 0, len(raw.Do))
	for i := range raw.Do {
		effect, err := decodeEffect(&raw.Do[i])
		if err != nil {
			return fmt.Errorf("do[%d]: %w", i, err)
		}
		r.Do = append(r.Do, effect)
	}
	return nil
}

// MarshalYAML writes the rule back in its configuration shape.
func (r Rule) MarshalYAML() (interface{}, error) {
	do := make([]map[string]interface{}, 0, len(r.Do))
	for _, e := range r.Do {
		var value interface{}
		switch v := e.(type) {
		case EnsureTracked:
			value = v.Enabled
		case EnsureStatusAtLeast:
			value = v.Status
		case AddLabelIfMissing:
			if len(v.Aliases) == 0 {
				value = v.Label
			} else {
				value = map[string]interface{}{"name": v.Label, "any": v.Aliases}
			}
		case RemoveLabelsIfPresent:
			value = v.Labels
		case AssignAuthor:
			value = v.Enabled
		case AuditOnChange:
			value = v.Enabled
		}
		do = append(do, map[string]interface{}{e.Key(): value})
	}
	return map[string]interface{}{"on": r.On, "do": do}, nil
}

func decodeEffect(node *yaml.Node) (Effect, error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return nil, fmt.Errorf("each effect must be a mapping with exactly one key")
	}

	key := node.Content[0].Value
	value := node.Content[1]

	switch key {
	case KeyEnsureTracked:
		var b bool
		if err := value.Decode(&b); err != nil {
			return nil, fmt.Errorf("%s must be a boolean: %w", key, err)
		}
		return EnsureTracked{Enabled: b}, nil

	case KeyEnsureStatusAtLeast:
		s, err := decodeString(key, value)
		if err != nil {
			return nil, err
		}
		return EnsureStatusAtLeast{Status: s}, nil

	case KeyAddLabelIfMissing:
		if value.Kind == yaml.MappingNode {
			var v struct {
				Name string   `yaml:"name"`
				Any  []string `yaml:"any"`
			}
			if err := value.Decode(&v); err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			if strings.TrimSpace(v.Name) == "" {
				return nil, fmt.Errorf("%s.name must be a non-empty string", key)
			}
			return AddLabelIfMissing{Label: v.Name, Aliases: v.Any}, nil
		}
		s, err := decodeString(key, value)
		if err != nil {
			return nil, err
		}
		return AddLabelIfMissing{Label: s}, nil

	case KeyRemoveLabelsIfPresent:
		var labels []string
		if value.Kind == yaml.ScalarNode {
			s, err := decodeString(key, value)
			if err != nil {
				return nil, err
			}
			labels = []string{s}
		} else if err := value.Decode(&labels); err != nil {
			return nil, fmt.Errorf("%s must be a list of strings: %w", key, err)
		}
		if len(labels) == 0 {
			return nil, fmt.Errorf("%s must not be empty", key)
		}
		return RemoveLabelsIfPresent{Labels: labels}, nil

	case KeyAssignAuthor:
		var b bool
		if err := value.Decode(&b); err != nil {
			return nil, fmt.Errorf("%s must be a boolean: %w", key, err)
		}
		return AssignAuthor{Enabled: b}, nil

	case KeyAuditOnChange:
		var b bool
		if err := value.Decode(&b); err != nil {
			return nil, fmt.Errorf("%s must be a boolean: %w", key, err)
		}
		return AuditOnChange{Enabled: b}, nil
	}

	return nil, fmt.Errorf("unknown effect %q", key)
}

func decodeString(key string, value *yaml.Node) (string, error) {
	var s string
	if value.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("%s must be a string", key)
	}
	if err := value.Decode(&s); err != nil {
		return "", fmt.Errorf("%s must be a string: %w", key, err)
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%s must be a non-empty string", key)
	}
	return s, nil
}
