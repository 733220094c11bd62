// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/report-engine/internal/catalog"
	"github.com/pdiddy/report-engine/internal/extract"
	"github.com/pdiddy/report-engine/internal/logger"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file.html>",
	Short: "Extract issues from one converted HTML report",
	Long: `Extract runs the issue extractor on a single HTML file and prints the
issues as JSON. Nothing is converted or written; use it to check how a
report's headings and tables are read.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	log := logger.Component(newLogger(), "extract")
	res, err := extract.NewExtractor(log).Document(string(data))
	if err != nil {
		return fmt.Errorf("extracting %s: %w", args[0], err)
	}

	summary, _ := cmd.Flags().GetBool("summary")
	if summary {
		c := catalog.Counts(res.Issues)
		fmt.Fprintf(os.Stdout, "issues: %d (high: %d, medium: %d, low: %d, triggered: %d)\n",
			len(res.Issues), c.High, c.Medium, c.Low, c.Triggered)
		fmt.Fprintf(os.Stdout, "sections: %d, tables: %d, skipped tables: %d, dropped rows: %d\n",
			res.Stats.Sections, res.Stats.Tables, res.Stats.SkippedTables, res.Stats.DroppedRows)
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Issues)
}

func init() {
	extractCmd.Flags().Bool("summary", false, "print counts instead of the issues")

	rootCmd.AddCommand(extractCmd)
}
