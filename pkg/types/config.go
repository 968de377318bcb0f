// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ConverterConfig holds settings for the external conversion tool.
type ConverterConfig struct {
	// Command is the converter executable looked up on PATH
	// (e.g. "xapktool.py"). It is invoked with one positional argument,
	// the leaf directory path.
	Command string `json:"command" yaml:"command"`

	// Args are extra arguments placed before the directory argument.
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// BatchConfig holds settings for a batch run.
type BatchConfig struct {
	Converter ConverterConfig `yaml:",inline"`

	// MarkerExt is the file extension whose presence in a leaf directory
	// marks it as already converted (default ".xapk").
	MarkerExt string `json:"marker_ext" yaml:"marker_ext"`

	// LedgerPath is the SQLite database recording run history.
	// Empty disables recording.
	LedgerPath string `json:"ledger_path,omitempty" yaml:"ledger_path,omitempty"`
}

// LedgerConfig holds settings for querying the run ledger.
type LedgerConfig struct {
	// Path is the SQLite database file written by batch runs.
	Path string `json:"path" yaml:"path"`

	// MaxRuns is the default maximum number of runs listed by history
	// queries (default 10).
	MaxRuns int `json:"max_runs" yaml:"max_runs"`
}
