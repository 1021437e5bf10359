// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-02
// Last Modified: 2026-03-06

package projects

import (
	"context"
	"fmt"
	"log"

	"github.com/similigh/simili-sync/internal/core/status"
)

// DryRunItemID is the placeholder item id reported when an item would have been created.
const DryRunItemID = "dry-run-item"

// IssueRef identifies the issue whose project item is synchronized.
type IssueRef struct {
	NodeID string
	Owner  string
	Repo   string
	Number int
}

// ItemLink is an issue's entry on the project board.
type ItemLink struct {
	ItemID        string
	CurrentStatus string // empty when the item has no status
	Created       bool
}

// Transition is the outcome of AdvanceStatus.
type Transition struct {
	Changed   bool
	Previous  string
	New       string
	Simulated bool // the update was reported but not applied (dry run)
}

// Syncer links issues to the project and advances their status.
// Item lookups are not cached; only the project Context is.
type Syncer struct {
	api    Querier
	dir    *Directory
	order  status.Order
	dryRun bool
}

// NewSyncer creates a Syncer. In dry-run mode no mutation is sent.
func NewSyncer(api Querier, dir *Directory, order status.Order, dryRun bool) *Syncer {
	return &Syncer{api: api, dir: dir, order: order, dryRun: dryRun}
}

// EnsureTracked returns the issue's item on the project, creating it when
// missing. A created item has no status and is not read back.
func (s *Syncer) EnsureTracked(ctx context.Context, issue IssueRef) (*ItemLink, error) {
	project, err := s.dir.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	itemID, err := s.findItem(ctx, issue, project.ProjectID)
	if err != nil {
		return nil, err
	}

	if itemID == "" {
		if s.dryRun {
			log.Printf("[projects] DRY RUN: Would add issue #%d to project %q", issue.Number, project.Title)
			return &ItemLink{ItemID: DryRunItemID, Created: true}, nil
		}

		itemID, err = s.addItem(ctx, project.ProjectID, issue.NodeID)
		if err != nil {
			return nil, err
		}
		log.Printf("[projects] Added issue #%d to project %q", issue.Number, project.Title)
		return &ItemLink{ItemID: itemID, Created: true}, nil
	}

	current, err := s.readStatus(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return &ItemLink{ItemID: itemID, CurrentStatus: current}, nil
}

// AdvanceStatus moves the item to target unless its current status is already
// at or after target in the order. Status never moves backwards.
func (s *Syncer) AdvanceStatus(ctx context.Context, itemID, current, target string) (*Transition, error) {
	project, err := s.dir.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	optionID, err := project.OptionID(target)
	if err != nil {
		return nil, err
	}

	if current != "" {
		done, err := s.order.IsAtOrAfter(current, target)
		if err != nil {
			return nil, err
		}
		if done {
			log.Printf("[projects] Current status %q is at/after %q, skipping update", current, target)
			return &Transition{Previous: current, New: current}, nil
		}
	} else if _, err := s.order.Index(target); err != nil {
		return nil, err
	}

	if s.dryRun {
		log.Printf("[projects] DRY RUN: Would update status to %q", target)
		return &Transition{Previous: current, New: target, Simulated: true}, nil
	}

	vars := map[string]interface{}{
		"projectId": project.ProjectID,
		"itemId":    itemID,
		"fieldId":   project.StatusFieldID,
		"optionId":  optionID,
	}
	if err := s.api.Query(ctx, "updateItemStatus", updateStatusMutation, vars, nil); err != nil {
		return nil, err
	}

	log.Printf("[projects] Status updated: %s -> %s", displayStatus(current), target)
	return &Transition{Changed: true, Previous: current, New: target}, nil
}

// findItem pages through the issue's project items looking for this project.
func (s *Syncer) findItem(ctx context.Context, issue IssueRef, projectID string) (string, error) {
	cursor := ""
	for {
		var data struct {
			Repository *struct {
				Issue *struct {
					ProjectItems *struct {
						Nodes []struct {
							ID      string `json:"id"`
							Project struct {
								ID string `json:"id"`
							} `json:"project"`
						} `json:"nodes"`
						PageInfo pageInfo `json:"pageInfo"`
					} `json:"projectItems"`
				} `json:"issue"`
			} `json:"repository"`
		}
		vars := map[string]interface{}{
			"owner":  issue.Owner,
			"repo":   issue.Repo,
			"number": issue.Number,
			"cursor": cursorValue(cursor),
		}
		if err := s.api.Query(ctx, "issueProjectItems", issueProjectItemsQuery, vars, &data); err != nil {
			return "", err
		}
		if data.Repository == nil || data.Repository.Issue == nil || data.Repository.Issue.ProjectItems == nil {
			return "", nil
		}

		items := data.Repository.Issue.ProjectItems
		for _, item := range items.Nodes {
			if item.Project.ID == projectID {
				return item.ID, nil
			}
		}

		if !items.PageInfo.HasNextPage {
			return "", nil
		}
		cursor = items.PageInfo.EndCursor
	}
}

func (s *Syncer) addItem(ctx context.Context, projectID, contentID string) (string, error) {
	var data struct {
		AddProjectV2ItemByID struct {
			Item struct {
				ID string `json:"id"`
			} `json:"item"`
		} `json:"addProjectV2ItemById"`
	}
	vars := map[string]interface{}{
		"projectId": projectID,
		"contentId": contentID,
	}
	if err := s.api.Query(ctx, "addItem", addItemMutation, vars, &data); err != nil {
		return "", err
	}
	if data.AddProjectV2ItemByID.Item.ID == "" {
		return "", fmt.Errorf("failed to resolve project item for issue")
	}
	return data.AddProjectV2ItemByID.Item.ID, nil
}

// readStatus returns the item's value for the status field, or "" when unset.
func (s *Syncer) readStatus(ctx context.Context, itemID string) (string, error) {
	fieldName := s.dir.Selector().StatusField
	cursor := ""
	for {
		var data struct {
			Node *struct {
				FieldValues *struct {
					Nodes []struct {
						Name  string `json:"name"`
						Field *struct {
							Name string `json:"name"`
						} `json:"field"`
					} `json:"nodes"`
					PageInfo pageInfo `json:"pageInfo"`
				} `json:"fieldValues"`
			} `json:"node"`
		}
		vars := map[string]interface{}{
			"itemId": itemID,
			"cursor": cursorValue(cursor),
		}
		if err := s.api.Query(ctx, "itemStatus", itemFieldValuesQuery, vars, &data); err != nil {
			return "", err
		}
		if data.Node == nil || data.Node.FieldValues == nil {
			return "", nil
		}

		values := data.Node.FieldValues
		for _, v := range values.Nodes {
			if v.Field != nil && v.Field.Name == fieldName {
				return v.Name, nil
			}
		}

		if !values.PageInfo.HasNextPage {
			return "", nil
		}
		cursor = values.PageInfo.EndCursor
	}
}

func displayStatus(name string) string {
	if name == "" {
		return "none"
	}
	return name
}
