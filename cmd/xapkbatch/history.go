// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/xapkbatch/internal/ledger"
	"github.com/pdiddy/xapkbatch/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded batch runs from the ledger",
	Long: `History lists recent batch runs recorded in the SQLite ledger, newest
first. Use --run to show the per-directory outcomes of a single run.
Output formats: table (default), json, yaml.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("ledger", "", "SQLite file recording run history")
	historyCmd.Flags().Int("limit", 0, "maximum number of runs to list (default 10)")
	historyCmd.Flags().Int64("run", 0, "show per-directory outcomes for this run ID")
	historyCmd.Flags().String("format", "table", "output format: table, json, or yaml")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := ledgerConfig(cmd)
	if cfg.Path == "" {
		return fmt.Errorf("ledger path required: pass --ledger or set it in the config file")
	}

	store, err := ledger.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	format, _ := cmd.Flags().GetString("format")
	runID, _ := cmd.Flags().GetInt64("run")

	if runID != 0 {
		outcomes, err := store.Outcomes(context.Background(), runID)
		if err != nil {
			return err
		}
		return formatOutcomes(outcomes, format)
	}

	runs, err := store.RecentRuns(context.Background())
	if err != nil {
		return err
	}
	return formatRuns(runs, format)
}

func formatRuns(runs []ledger.RunRecord, format string) error {
	switch format {
	case "json":
		return encodeJSON(runs)
	case "yaml":
		return encodeYAML(runs)
	case "table", "":
	default:
		return fmt.Errorf("unsupported format %q: use table, json, or yaml", format)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-5s  %-40s  %-20s  %9s  %7s  %6s\n",
		"ID", "Root", "Started", "Converted", "Skipped", "Failed")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 96))
	for _, r := range runs {
		root := r.Root
		if len(root) > 40 {
			root = "..." + root[len(root)-37:]
		}
		fmt.Fprintf(os.Stdout, "%-5d  %-40s  %-20s  %9d  %7d  %6d\n",
			r.ID, root, r.StartedAt.Format("2006-01-02 15:04:05"),
			r.Converted, r.Skipped, r.Failed)
	}
	return nil
}

func formatOutcomes(outcomes []types.Outcome, format string) error {
	switch format {
	case "json":
		return encodeJSON(outcomes)
	case "yaml":
		return encodeYAML(outcomes)
	case "table", "":
	default:
		return fmt.Errorf("unsupported format %q: use table, json, or yaml", format)
	}

	if len(outcomes) == 0 {
		fmt.Println("No outcomes recorded for this run.")
		return nil
	}

	for _, o := range outcomes {
		if o.Status == types.OutcomeSkipped {
			fmt.Fprintf(os.Stdout, "%-9s  %s\n", o.Status, o.Dir)
			continue
		}
		fmt.Fprintf(os.Stdout, "%-9s  %s (exit %d)\n", o.Status, o.Dir, o.ExitCode)
	}
	return nil
}

func encodeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func encodeYAML(v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	_, err = os.Stdout.Write(data)
	return err
}

func ledgerConfig(cmd *cobra.Command) types.LedgerConfig {
	path, _ := cmd.Flags().GetString("ledger")
	if path == "" {
		path = viper.GetString("ledger")
	}
	limit, _ := cmd.Flags().GetInt("limit")

	return types.LedgerConfig{
		Path:    path,
		MaxRuns: limit,
	}
}
