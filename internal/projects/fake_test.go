// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-02
// Last Modified: 2026-03-06

package projects

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
)

// fakeQuerier answers queries by label and round-trips responses through JSON
// the way the GraphQL client does.
type fakeQuerier struct {
	t        *testing.T
	handlers map[string]func(vars map[string]interface{}) (interface{}, error)
	calls    map[string]int
	vars     map[string][]map[string]interface{}
}

func newFakeQuerier(t *testing.T) *fakeQuerier {
	return &fakeQuerier{
		t:        t,
		handlers: make(map[string]func(map[string]interface{}) (interface{}, error)),
		calls:    make(map[string]int),
		vars:     make(map[string][]map[string]interface{}),
	}
}

func (f *fakeQuerier) on(label string, fn func(vars map[string]interface{}) (interface{}, error)) {
	f.handlers[label] = fn
}

func (f *fakeQuerier) Query(ctx context.Context, label, query string, variables map[string]interface{}, out interface{}) error {
	f.calls[label]++
	f.vars[label] = append(f.vars[label], variables)

	fn, ok := f.handlers[label]
	if !ok {
		f.t.Errorf("unexpected query %q", label)
		return fmt.Errorf("unexpected query %q", label)
	}
	resp, err := fn(variables)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	if out == nil {
		return nil
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (f *fakeQuerier) total() int {
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

type m = map[string]interface{}

func page(nodes interface{}, next bool, cursor string) m {
	return m{
		"nodes":    nodes,
		"pageInfo": m{"hasNextPage": next, "endCursor": cursor},
	}
}

var boardOptions = []m{
	{"id": "opt-backlog", "name": "Backlog"},
	{"id": "opt-ready", "name": "Ready"},
	{"id": "opt-progress", "name": "In Progress"},
	{"id": "opt-review", "name": "In review"},
	{"id": "opt-done", "name": "Completed"},
}

// withBoard registers a resolvable org project #7 with a "Status" field.
func withBoard(f *fakeQuerier) {
	f.on("findOrgProjectByNumber", func(vars map[string]interface{}) (interface{}, error) {
		return m{"organization": m{"projectV2": m{"id": "PVT_7", "title": "Roadmap"}}}, nil
	})
	f.on("projectFields", func(vars map[string]interface{}) (interface{}, error) {
		return m{"node": m{"fields": page([]m{
			{"id": "F_title", "name": "Title", "dataType": "TITLE"},
			{"id": "F_status", "name": "Status", "dataType": "SINGLE_SELECT", "options": boardOptions},
		}, false, "")}}, nil
	})
}
