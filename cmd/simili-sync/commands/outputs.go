// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-03-05
// Last Modified: 2026-03-06

package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/similigh/simili-sync/internal/core/pipeline"
)

// outputPairs lists the action outputs in a stable order.
func outputPairs(r *pipeline.Result) [][2]string {
	issueNumber := ""
	if r.IssueNumber > 0 {
		issueNumber = strconv.Itoa(r.IssueNumber)
	}
	return [][2]string{
		{"issue_number", issueNumber},
		{"did_label_change", strconv.FormatBool(r.DidLabelChange)},
		{"did_assignment_change", strconv.FormatBool(r.DidAssignmentChange)},
		{"did_status_change", strconv.FormatBool(r.DidStatusChange)},
		{"target_status", r.TargetStatus},
		{"previous_status", r.PreviousStatus},
		{"new_status", r.NewStatus},
	}
}

// writeOutputs writes key=value lines in the GITHUB_OUTPUT file format.
func writeOutputs(w io.Writer, r *pipeline.Result) error {
	for _, kv := range outputPairs(r) {
		if _, err := fmt.Fprintf(w, "%s=%s\n", kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

// publishOutputs appends outputs to the file at path, or stdout when path is empty.
func publishOutputs(path string, r *pipeline.Result) error {
	if path == "" {
		return writeOutputs(os.Stdout, r)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer f.Close()

	return writeOutputs(f, r)
}
