// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch implements the traversal-and-dispatch loop: every leaf
// directory under a root is either skipped (a converted artifact already
// exists) or handed to the external converter, one status line per leaf.
package batch

import (
	"fmt"
	"io"

	"github.com/pdiddy/xapkbatch/internal/converter"
	"github.com/pdiddy/xapkbatch/internal/scan"
	"github.com/pdiddy/xapkbatch/pkg/types"
)

// DefaultMarkerExt marks a leaf directory as already converted.
const DefaultMarkerExt = ".xapk"

// spawnFailureCode is logged when the converter cannot be started at all,
// matching the shell exit status for a missing command. The batch
// continues past it.
const spawnFailureCode = 127

// Result tallies the outcomes of a batch run.
type Result struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of leaf directories processed.
func (r Result) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any conversion failed.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// Run snapshots the tree under root and processes every leaf directory in
// traversal order. Status lines go to w; warnings go to warn. The only
// fatal error is a root that cannot be traversed.
func Run(tool converter.Tool, root, markerExt string, w, warn io.Writer) ([]types.Outcome, error) {
	snap, err := scan.Take(root, warn)
	if err != nil {
		return nil, err
	}
	return Process(tool, snap.Leaves(), markerExt, w, warn), nil
}

// Process handles each leaf directory in order: marked directories are
// skipped, all others go through the converter. Conversion failures never
// abort the loop.
func Process(tool converter.Tool, leaves []string, markerExt string, w, warn io.Writer) []types.Outcome {
	outcomes := make([]types.Outcome, 0, len(leaves))
	for _, dir := range leaves {
		outcomes = append(outcomes, ProcessLeaf(tool, dir, markerExt, w, warn))
	}
	return outcomes
}

// ProcessLeaf handles a single leaf directory and emits its status line.
func ProcessLeaf(tool converter.Tool, dir, markerExt string, w, warn io.Writer) types.Outcome {
	marked, err := scan.HasMarker(dir, markerExt)
	if err != nil {
		// Treat an unlistable leaf as unconverted; the converter will
		// report its own failure if the directory is truly unreadable.
		fmt.Fprintf(warn, "warning: %v\n", err)
	}
	if marked {
		fmt.Fprintf(w, "=== %s = SKIP\n", dir)
		return types.Outcome{Dir: dir, Status: types.OutcomeSkipped}
	}

	code, err := tool.Convert(dir)
	if err != nil {
		fmt.Fprintf(warn, "warning: %v\n", err)
		code = spawnFailureCode
	}
	fmt.Fprintf(w, "=== %s = %d\n", dir, code)

	status := types.OutcomeConverted
	if code != 0 {
		status = types.OutcomeFailed
	}
	return types.Outcome{Dir: dir, Status: status, ExitCode: code}
}

// Summarize tallies outcomes into a Result.
func Summarize(outcomes []types.Outcome) Result {
	var result Result
	for _, o := range outcomes {
		switch o.Status {
		case types.OutcomeConverted:
			result.Converted++
		case types.OutcomeSkipped:
			result.Skipped++
		case types.OutcomeFailed:
			result.Failed++
		}
	}
	return result
}
