// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-03-06
// Last Modified: 2026-03-06

package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/similigh/simili-sync/internal/core/pipeline"
)

func TestWriteOutputs(t *testing.T) {
	r := &pipeline.Result{
		IssueNumber:     12,
		DidLabelChange:  true,
		DidStatusChange: true,
		TargetStatus:    "In review",
		PreviousStatus:  "In Progress",
		NewStatus:       "In review",
	}

	var buf bytes.Buffer
	if err := writeOutputs(&buf, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "issue_number=12\n" +
		"did_label_change=true\n" +
		"did_assignment_change=false\n" +
		"did_status_change=true\n" +
		"target_status=In review\n" +
		"previous_status=In Progress\n" +
		"new_status=In review\n"
	if buf.String() != want {
		t.Errorf("outputs mismatch\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteOutputsEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	if err := writeOutputs(&buf, &pipeline.Result{Skipped: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("issue_number=\n")) {
		t.Errorf("expected empty issue_number, got:\n%s", buf.String())
	}
}

func TestPublishOutputsAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "github_output")
	if err := os.WriteFile(path, []byte("existing=1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := publishOutputs(path, &pipeline.Result{IssueNumber: 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("existing=1\nissue_number=3\n")) {
		t.Errorf("unexpected file content:\n%s", data)
	}
}

func TestFinishRunPublishesPartialOutputsOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "github_output")
	runErr := errors.New("step 'project_sync' failed: boom")

	err := finishRun(path, &pipeline.Result{IssueNumber: 12, DidLabelChange: true}, runErr)
	if !errors.Is(err, runErr) {
		t.Errorf("finishRun() error = %v, want the pipeline error", err)
	}

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if !bytes.HasPrefix(data, []byte("issue_number=12\ndid_label_change=true\n")) {
		t.Errorf("unexpected file content:\n%s", data)
	}
}

func TestFinishRunReportsOutputFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "github_output")

	if err := finishRun(path, &pipeline.Result{}, nil); err == nil {
		t.Error("expected error when the output file cannot be opened")
	}

	runErr := errors.New("boom")
	if err := finishRun(path, &pipeline.Result{}, runErr); !errors.Is(err, runErr) {
		t.Errorf("expected the pipeline error to win, got %v", err)
	}
}
