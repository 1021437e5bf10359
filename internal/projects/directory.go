// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-02
// Last Modified: 2026-03-06

// Package projects reconciles issues with a GitHub Projects (v2) board: it
// resolves the board and its status field, links issues to it, and moves the
// status forward along the configured order.
package projects

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	similiGithub "github.com/similigh/simili-sync/internal/integrations/github"
)

var (
	// ErrProjectNotFound means no project matched the configured number or title.
	ErrProjectNotFound = errors.New("project not found")

	// ErrStatusFieldNotFound means the project has no field with the configured name.
	ErrStatusFieldNotFound = errors.New("status field not found")

	// ErrStatusOptionNotFound means the status field has no option with the requested name.
	ErrStatusOptionNotFound = errors.New("status option not found")
)

// Querier runs a GraphQL document and decodes its data into out.
// *similiGithub.GraphQLClient satisfies it; every call is retried there.
type Querier interface {
	Query(ctx context.Context, label, query string, variables map[string]interface{}, out interface{}) error
}

// Selector identifies a project and its status field.
// Number takes precedence over Name when both are set.
type Selector struct {
	Owner       string
	Name        string
	Number      int
	StatusField string
}

func (s Selector) String() string {
	if s.Number > 0 {
		return s.Owner + "/#" + strconv.Itoa(s.Number)
	}
	return s.Owner + "/" + s.Name
}

// Context is the resolved identity of a project board.
type Context struct {
	ProjectID     string
	Title         string
	StatusFieldID string
	Options       map[string]string // option name -> option id
}

// OptionID returns the id of the named status option.
func (c *Context) OptionID(name string) (string, error) {
	id, ok := c.Options[name]
	if !ok || id == "" {
		return "", fmt.Errorf("%w: %q in project %q", ErrStatusOptionNotFound, name, c.Title)
	}
	return id, nil
}

// Directory resolves a project once and serves the cached Context for the
// rest of the run. It is not safe for concurrent use.
type Directory struct {
	api      Querier
	selector Selector
	cached   *Context
}

// NewDirectory creates a Directory for the given project selector.
func NewDirectory(api Querier, selector Selector) *Directory {
	return &Directory{api: api, selector: selector}
}

// Selector returns the project selector this directory resolves.
func (d *Directory) Selector() Selector {
	return d.selector
}

// Resolve returns the project context, querying GitHub only on the first
// successful call.
func (d *Directory) Resolve(ctx context.Context) (*Context, error) {
	if d.cached != nil {
		return d.cached, nil
	}

	var (
		project *projectNode
		err     error
	)
	if d.selector.Number > 0 {
		project, err = d.findByNumber(ctx)
	} else if d.selector.Name != "" {
		project, err = d.findByName(ctx)
	}
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, d.selector)
	}

	fieldID, options, err := d.findStatusField(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	d.cached = &Context{
		ProjectID:     project.ID,
		Title:         project.Title,
		StatusFieldID: fieldID,
		Options:       options,
	}
	log.Printf("[projects] Resolved project %q (%d status options)", project.Title, len(options))
	return d.cached, nil
}

// findByNumber looks the project up in the organization scope, then the user scope.
func (d *Directory) findByNumber(ctx context.Context) (*projectNode, error) {
	vars := map[string]interface{}{
		"owner":  d.selector.Owner,
		"number": d.selector.Number,
	}

	var org struct {
		Organization *struct {
			ProjectV2 *projectNode `json:"projectV2"`
		} `json:"organization"`
	}
	found, err := scoped(d.api.Query(ctx, "findOrgProjectByNumber", orgProjectByNumberQuery, vars, &org))
	if err != nil {
		return nil, err
	}
	if found && org.Organization != nil && org.Organization.ProjectV2 != nil {
		return org.Organization.ProjectV2, nil
	}

	var user struct {
		User *struct {
			ProjectV2 *projectNode `json:"projectV2"`
		} `json:"user"`
	}
	found, err = scoped(d.api.Query(ctx, "findUserProjectByNumber", userProjectByNumberQuery, vars, &user))
	if err != nil {
		return nil, err
	}
	if found && user.User != nil && user.User.ProjectV2 != nil {
		return user.User.ProjectV2, nil
	}
	return nil, nil
}

type projectConnection struct {
	ProjectsV2 *struct {
		Nodes    []projectNode `json:"nodes"`
		PageInfo pageInfo      `json:"pageInfo"`
	} `json:"projectsV2"`
}

// findByName pages through the owner's projects looking for an exact title match.
func (d *Directory) findByName(ctx context.Context) (*projectNode, error) {
	scopes := []struct {
		label string
		query string
		pick  func(data map[string]*projectConnection) *projectConnection
	}{
		{"findOrgProjectByName", orgProjectsQuery, func(data map[string]*projectConnection) *projectConnection { return data["organization"] }},
		{"findUserProjectByName", userProjectsQuery, func(data map[string]*projectConnection) *projectConnection { return data["user"] }},
	}

	for _, scope := range scopes {
		cursor := ""
		for {
			var data map[string]*projectConnection
			vars := map[string]interface{}{
				"owner":  d.selector.Owner,
				"cursor": cursorValue(cursor),
				"search": d.selector.Name,
			}
			found, err := scoped(d.api.Query(ctx, scope.label, scope.query, vars, &data))
			if err != nil {
				return nil, err
			}
			conn := scope.pick(data)
			if !found || conn == nil || conn.ProjectsV2 == nil {
				break
			}

			for i := range conn.ProjectsV2.Nodes {
				if conn.ProjectsV2.Nodes[i].Title == d.selector.Name {
					node := conn.ProjectsV2.Nodes[i]
					return &node, nil
				}
			}

			if !conn.ProjectsV2.PageInfo.HasNextPage {
				break
			}
			cursor = conn.ProjectsV2.PageInfo.EndCursor
		}
	}
	return nil, nil
}

// findStatusField pages through the project's fields until the status field is found.
func (d *Directory) findStatusField(ctx context.Context, projectID string) (string, map[string]string, error) {
	cursor := ""
	for {
		var data struct {
			Node *struct {
				Fields *struct {
					Nodes []struct {
						ID      string `json:"id"`
						Name    string `json:"name"`
						Options []struct {
							ID   string `json:"id"`
							Name string `json:"name"`
						} `json:"options"`
					} `json:"nodes"`
					PageInfo pageInfo `json:"pageInfo"`
				} `json:"fields"`
			} `json:"node"`
		}
		vars := map[string]interface{}{
			"projectId": projectID,
			"cursor":    cursorValue(cursor),
		}
		if err := d.api.Query(ctx, "projectFields", projectFieldsQuery, vars, &data); err != nil {
			return "", nil, err
		}
		if data.Node == nil || data.Node.Fields == nil {
			break
		}

		// First match wins when a board has duplicate field names.
		for _, field := range data.Node.Fields.Nodes {
			if field.Name != d.selector.StatusField {
				continue
			}
			options := make(map[string]string, len(field.Options))
			for _, opt := range field.Options {
				options[opt.Name] = opt.ID
			}
			return field.ID, options, nil
		}

		if !data.Node.Fields.PageInfo.HasNextPage {
			break
		}
		cursor = data.Node.Fields.PageInfo.EndCursor
	}
	return "", nil, fmt.Errorf("%w: %q in project %s", ErrStatusFieldNotFound, d.selector.StatusField, d.selector)
}

// scoped treats a NOT_FOUND GraphQL error as "not in this scope" so lookups
// can fall through from organization to user. Any other error fails.
func scoped(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	var gqlErr *similiGithub.GraphQLError
	if errors.As(err, &gqlErr) && gqlErr.NotFound() {
		return false, nil
	}
	return false, err
}
