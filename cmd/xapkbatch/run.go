// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/xapkbatch/internal/batch"
	"github.com/pdiddy/xapkbatch/internal/converter"
	"github.com/pdiddy/xapkbatch/internal/ledger"
	"github.com/pdiddy/xapkbatch/internal/runlock"
	"github.com/pdiddy/xapkbatch/pkg/types"
)

func runBatch(cmd *cobra.Command, args []string) error {
	root := args[0]
	cfg := batchConfig(cmd)

	lock, err := runlock.Acquire(root)
	if err != nil {
		return err
	}
	defer runlock.Release(lock)

	tool := converter.New(cfg.Converter, os.Stdout)
	if !tool.Available() {
		fmt.Fprintf(os.Stderr, "warning: converter %s not found on PATH; unconverted directories will log 127\n", tool.Name())
	}

	outcomes, err := batch.Run(tool, root, cfg.MarkerExt, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}

	result := batch.Summarize(outcomes)
	fmt.Fprintf(os.Stderr, "%d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())

	if cfg.LedgerPath != "" {
		if err := recordRun(root, cfg.LedgerPath, outcomes, result); err != nil {
			fmt.Fprintf(os.Stderr, "warning: ledger write failed: %v\n", err)
		}
	}

	// Converter failures are already logged per directory; they do not
	// turn into a nonzero driver exit.
	return nil
}

func recordRun(root, ledgerPath string, outcomes []types.Outcome, result batch.Result) error {
	store, err := ledger.Open(types.LedgerConfig{Path: ledgerPath})
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	runID, err := store.BeginRun(ctx, root)
	if err != nil {
		return err
	}
	if err := store.RecordOutcomes(ctx, runID, outcomes); err != nil {
		return err
	}
	return store.FinishRun(ctx, runID, result)
}

// batchConfig resolves the run configuration: flags win, then the viper
// config file and environment, then built-in defaults.
func batchConfig(cmd *cobra.Command) types.BatchConfig {
	command, _ := cmd.Flags().GetString("converter")
	if command == "" {
		command = viper.GetString("converter")
	}

	converterArgs, _ := cmd.Flags().GetStringSlice("converter-arg")
	if len(converterArgs) == 0 {
		converterArgs = viper.GetStringSlice("converter_args")
	}

	markerExt, _ := cmd.Flags().GetString("marker-ext")
	if markerExt == "" {
		markerExt = viper.GetString("marker_ext")
	}
	if markerExt == "" {
		markerExt = batch.DefaultMarkerExt
	}

	ledgerPath, _ := cmd.Flags().GetString("ledger")
	if ledgerPath == "" {
		ledgerPath = viper.GetString("ledger")
	}

	return types.BatchConfig{
		Converter: types.ConverterConfig{
			Command: command,
			Args:    converterArgs,
		},
		MarkerExt:  markerExt,
		LedgerPath: ledgerPath,
	}
}
