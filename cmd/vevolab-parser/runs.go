// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vevolab-parser/internal/export"
	"github.com/pdiddy/vevolab-parser/internal/store"
	"github.com/pdiddy/vevolab-parser/pkg/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs DATABASE",
	Short: "List the conversions stored in a SQLite database",
	Long: `Runs lists every import recorded in a database written with --sqlite:
its run id, source file, import time and row counts. With --show RUN_ID it
prints the measurement and calculation tables of that run instead.`,
	Example: `  vevolab-parser runs vevolab.db
  vevolab-parser runs vevolab.db --show 0b6c2f1e-5d0a-4c1b-9f3e-2a7d8c4b1e90 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRuns,
}

func runRuns(cmd *cobra.Command, args []string) error {
	info, err := os.Stat(args[0])
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("database %q does not exist or is not a regular file", args[0])
	}

	st, err := store.Open(args[0])
	if err != nil {
		return err
	}
	defer st.Close()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if runID, _ := cmd.Flags().GetString("show"); runID != "" {
		tables, err := st.Tables(cmd.Context(), runID)
		if err != nil {
			return err
		}
		return formatTables(cmd.OutOrStdout(), tables, jsonOutput)
	}

	runs, err := st.Runs(cmd.Context())
	if err != nil {
		return err
	}
	return formatRuns(cmd.OutOrStdout(), runs, jsonOutput)
}

func formatRuns(w io.Writer, runs []store.Run, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found.")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-20s  %-12s  %-12s  %s\n",
		"Run", "Imported", "Measurements", "Calculations", "Input")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s  %-20s  %-12d  %-12d  %s\n",
			r.ID, r.ImportedAt, r.Measurements, r.Calculations, r.Input)
	}
	fmt.Fprintf(w, "\n%d runs\n", len(runs))
	return nil
}

func formatTables(w io.Writer, tables types.Tables, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tables)
	}

	for i, s := range export.Sheets(tables) {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "# %s (%d rows)\n", s.Name, len(s.Rows))
		if err := export.WriteSheet(w, ',', s); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	runsCmd.Flags().Bool("json", false, "output as JSON")
	runsCmd.Flags().String("show", "", "print the tables of this run id")
	rootCmd.AddCommand(runsCmd)
}
