// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-02
// Last Modified: 2026-03-06

package projects

import (
	"context"
	"errors"
	"testing"

	"github.com/similigh/simili-sync/internal/core/status"
)

var testOrder = status.Order{"Backlog", "Ready", "In Progress", "In review", "Completed"}

var testIssue = IssueRef{NodeID: "I_42", Owner: "acme", Repo: "issues", Number: 42}

// boardWithItems registers a board whose issue links are served from items.
// An added item is appended so later lookups find it.
func boardWithItems(f *fakeQuerier, items *[]m, itemStatus string) {
	withBoard(f)
	f.on("issueProjectItems", func(vars map[string]interface{}) (interface{}, error) {
		return m{"repository": m{"issue": m{"projectItems": page(*items, false, "")}}}, nil
	})
	f.on("addItem", func(vars map[string]interface{}) (interface{}, error) {
		if vars["contentId"] != "I_42" || vars["projectId"] != "PVT_7" {
			f.t.Errorf("addItem vars = %v", vars)
		}
		*items = append(*items, m{"id": "PVTI_new", "project": m{"id": "PVT_7"}})
		return m{"addProjectV2ItemById": m{"item": m{"id": "PVTI_new"}}}, nil
	})
	f.on("itemStatus", func(vars map[string]interface{}) (interface{}, error) {
		nodes := []m{
			{},
			{"name": "Sprint 3", "field": m{"id": "F_iter", "name": "Iteration"}},
		}
		if itemStatus != "" {
			nodes = append(nodes, m{"name": itemStatus, "field": m{"id": "F_status", "name": "Status"}})
		}
		return m{"node": m{"fieldValues": page(nodes, false, "")}}, nil
	})
	f.on("updateItemStatus", func(vars map[string]interface{}) (interface{}, error) {
		return m{"updateProjectV2ItemFieldValue": m{"projectV2Item": m{"id": vars["itemId"]}}}, nil
	})
}

func newTestSyncer(f *fakeQuerier, dryRun bool) *Syncer {
	dir := NewDirectory(f, Selector{Owner: "acme", Number: 7, StatusField: "Status"})
	return NewSyncer(f, dir, testOrder, dryRun)
}

func TestEnsureTrackedCreatesOnce(t *testing.T) {
	f := newFakeQuerier(t)
	items := []m{{"id": "PVTI_other", "project": m{"id": "PVT_other"}}}
	boardWithItems(f, &items, "")
	s := newTestSyncer(f, false)

	first, err := s.EnsureTracked(context.Background(), testIssue)
	if err != nil {
		t.Fatalf("EnsureTracked() error = %v", err)
	}
	if first.ItemID != "PVTI_new" || !first.Created || first.CurrentStatus != "" {
		t.Errorf("first link = %+v", first)
	}
	if f.calls["itemStatus"] != 0 {
		t.Error("a freshly created item must not be read back")
	}

	second, err := s.EnsureTracked(context.Background(), testIssue)
	if err != nil {
		t.Fatalf("second EnsureTracked() error = %v", err)
	}
	if second.ItemID != first.ItemID || second.Created {
		t.Errorf("second link = %+v", second)
	}
	if f.calls["addItem"] != 1 {
		t.Errorf("expected a single create, got %d", f.calls["addItem"])
	}
	if f.calls["issueProjectItems"] != 2 {
		t.Errorf("item lookups are not cached; expected 2, got %d", f.calls["issueProjectItems"])
	}
	if f.calls["findOrgProjectByNumber"] != 1 {
		t.Errorf("project lookups are cached; expected 1, got %d", f.calls["findOrgProjectByNumber"])
	}
}

func TestEnsureTrackedReadsExistingStatus(t *testing.T) {
	f := newFakeQuerier(t)
	items := []m{{"id": "PVTI_1", "project": m{"id": "PVT_7"}}}
	boardWithItems(f, &items, "In Progress")

	link, err := newTestSyncer(f, false).EnsureTracked(context.Background(), testIssue)
	if err != nil {
		t.Fatalf("EnsureTracked() error = %v", err)
	}
	if link.ItemID != "PVTI_1" || link.CurrentStatus != "In Progress" || link.Created {
		t.Errorf("link = %+v", link)
	}
}

func TestEnsureTrackedPaginatesItems(t *testing.T) {
	f := newFakeQuerier(t)
	boardWithItems(f, &[]m{}, "Ready")
	f.on("issueProjectItems", func(vars map[string]interface{}) (interface{}, error) {
		if vars["cursor"] == nil {
			return m{"repository": m{"issue": m{"projectItems": page([]m{
				{"id": "PVTI_a", "project": m{"id": "PVT_a"}},
			}, true, "next")}}}, nil
		}
		return m{"repository": m{"issue": m{"projectItems": page([]m{
			{"id": "PVTI_b", "project": m{"id": "PVT_7"}},
		}, false, "")}}}, nil
	})

	link, err := newTestSyncer(f, false).EnsureTracked(context.Background(), testIssue)
	if err != nil {
		t.Fatalf("EnsureTracked() error = %v", err)
	}
	if link.ItemID != "PVTI_b" || link.CurrentStatus != "Ready" {
		t.Errorf("link = %+v", link)
	}
	if f.calls["addItem"] != 0 {
		t.Error("existing item on page 2 must not be recreated")
	}
}

func TestEnsureTrackedDryRun(t *testing.T) {
	f := newFakeQuerier(t)
	boardWithItems(f, &[]m{}, "")

	link, err := newTestSyncer(f, true).EnsureTracked(context.Background(), testIssue)
	if err != nil {
		t.Fatalf("EnsureTracked() error = %v", err)
	}
	if link.ItemID != DryRunItemID || !link.Created || link.CurrentStatus != "" {
		t.Errorf("link = %+v", link)
	}
	if f.calls["addItem"] != 0 {
		t.Error("dry run must not create items")
	}
}

func TestAdvanceStatus(t *testing.T) {
	tests := []struct {
		name        string
		current     string
		target      string
		wantChanged bool
		wantNew     string
		wantUpdate  bool
	}{
		{"from none", "", "Ready", true, "Ready", true},
		{"forward", "Ready", "In review", true, "In review", true},
		{"already there", "In review", "In review", false, "In review", false},
		{"never regress", "Completed", "Ready", false, "Completed", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeQuerier(t)
			boardWithItems(f, &[]m{}, "")
			s := newTestSyncer(f, false)

			got, err := s.AdvanceStatus(context.Background(), "PVTI_1", tt.current, tt.target)
			if err != nil {
				t.Fatalf("AdvanceStatus() error = %v", err)
			}
			if got.Changed != tt.wantChanged || got.New != tt.wantNew || got.Previous != tt.current {
				t.Errorf("AdvanceStatus() = %+v", got)
			}
			if updated := f.calls["updateItemStatus"] == 1; updated != tt.wantUpdate {
				t.Errorf("update sent = %v, want %v", updated, tt.wantUpdate)
			}
			if tt.wantUpdate {
				vars := f.vars["updateItemStatus"][0]
				if vars["fieldId"] != "F_status" || vars["itemId"] != "PVTI_1" || vars["projectId"] != "PVT_7" {
					t.Errorf("update vars = %v", vars)
				}
			}
		})
	}
}

func TestAdvanceStatusIsMonotonic(t *testing.T) {
	for i, current := range testOrder {
		for j, target := range testOrder {
			f := newFakeQuerier(t)
			boardWithItems(f, &[]m{}, "")

			got, err := newTestSyncer(f, false).AdvanceStatus(context.Background(), "PVTI_1", current, target)
			if err != nil {
				t.Fatalf("AdvanceStatus(%q, %q) error = %v", current, target, err)
			}
			if i >= j && (got.Changed || got.New != current) {
				t.Errorf("AdvanceStatus(%q, %q) = %+v, want no-op", current, target, got)
			}
			if i < j && (!got.Changed || got.New != target) {
				t.Errorf("AdvanceStatus(%q, %q) = %+v, want advance", current, target, got)
			}
		}
	}
}

func TestAdvanceStatusDryRun(t *testing.T) {
	f := newFakeQuerier(t)
	boardWithItems(f, &[]m{}, "")

	got, err := newTestSyncer(f, true).AdvanceStatus(context.Background(), DryRunItemID, "Backlog", "Ready")
	if err != nil {
		t.Fatalf("AdvanceStatus() error = %v", err)
	}
	if got.Changed || !got.Simulated || got.New != "Ready" || got.Previous != "Backlog" {
		t.Errorf("AdvanceStatus() = %+v", got)
	}
	if f.calls["updateItemStatus"] != 0 {
		t.Error("dry run must not update status")
	}
}

func TestAdvanceStatusErrors(t *testing.T) {
	f := newFakeQuerier(t)
	boardWithItems(f, &[]m{}, "")
	s := newTestSyncer(f, false)

	_, err := s.AdvanceStatus(context.Background(), "PVTI_1", "", "Shipped")
	if !errors.Is(err, ErrStatusOptionNotFound) {
		t.Errorf("expected ErrStatusOptionNotFound, got %v", err)
	}

	// A current status outside the order is an error, not a silent default.
	_, err = s.AdvanceStatus(context.Background(), "PVTI_1", "Triage", "Ready")
	if !errors.Is(err, status.ErrUnknownStatus) {
		t.Errorf("expected ErrUnknownStatus for current, got %v", err)
	}
	if f.calls["updateItemStatus"] != 0 {
		t.Error("no update should be sent on error")
	}
}
