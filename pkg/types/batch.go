// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared data types of the xapkbatch pipeline:
// per-directory outcomes and the configuration structs consumed by the
// scan, batch, and ledger stages.
package types

// OutcomeStatus classifies what happened to one leaf directory during a
// batch run.
type OutcomeStatus string

const (
	// OutcomeSkipped means the directory already contained a converted
	// artifact and the converter was not invoked.
	OutcomeSkipped OutcomeStatus = "skipped"

	// OutcomeConverted means the converter ran and exited with status 0.
	OutcomeConverted OutcomeStatus = "converted"

	// OutcomeFailed means the converter ran and exited nonzero, or could
	// not be spawned at all.
	OutcomeFailed OutcomeStatus = "failed"
)

// Outcome records the result of processing one leaf directory.
type Outcome struct {
	// Dir is the leaf directory path as yielded by the traversal.
	Dir string `json:"dir" yaml:"dir"`

	// Status is the classification of the result.
	Status OutcomeStatus `json:"status" yaml:"status"`

	// ExitCode is the converter's exit status. It is zero and meaningless
	// when Status is OutcomeSkipped. Spawn-level failures are recorded as
	// 127, matching the shell convention for a missing command.
	ExitCode int `json:"exit_code" yaml:"exit_code"`
}
