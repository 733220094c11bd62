// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/report-engine/internal/store"
	"github.com/pdiddy/report-engine/pkg/types"
)

var issuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "Query issues in the report store",
	Long: `Issues queries the SQLite store written by "build --store". Use
subcommands to search findings or export them.`,
}

// --- search subcommand ---

var issuesSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search stored issues with full-text search and filters",
	Long: `Search matches section titles, findings, and recommendations with
FTS5 full-text search, optionally narrowed by risk level, report slug, or
version. Without a query, filtered issues are listed newest report first.`,
	RunE: runIssuesSearch,
}

func runIssuesSearch(cmd *cobra.Command, args []string) error {
	opts, err := queryOptsFromFlags(cmd, args)
	if err != nil {
		return err
	}
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --risk, --slug, or --version")
	}

	st, err := store.Open(storeConfig())
	if err != nil {
		return err
	}
	defer st.Close()

	results, err := st.Search(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(os.Stdout, results, jsonOutput)
}

func formatSearchOutput(w io.Writer, results []store.Result, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-9s  %-24s  %-50s  %s\n", "Rank", "Risk", "Report", "Finding", "ID")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, r := range results {
		fmt.Fprintf(w, "%-4d  %-9s  %-24s  %-50s  %s\n",
			i+1, r.RiskLevel, truncate(r.Slug+"/"+r.Version, 24), truncate(r.Finding, 50), r.ID)
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// --- export subcommand ---

var issuesExportCmd = &cobra.Command{
	Use:   "export [query]",
	Short: "Export stored issues as YAML or JSON",
	Long: `Export writes every stored issue (or a filtered subset) to stdout.
Supports the same filters as search.`,
	RunE: runIssuesExport,
}

func runIssuesExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	opts, err := queryOptsFromFlags(cmd, args)
	if err != nil {
		return err
	}

	st, err := store.Open(storeConfig())
	if err != nil {
		return err
	}
	defer st.Close()

	return st.Export(cmd.Context(), os.Stdout, format, opts)
}

// --- runs command ---

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored build runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := store.Open(storeConfig())
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.Runs(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No runs stored.")
			return nil
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-30s  %9s  %6s  %7s\n", "Run", "Started", "Documents", "Issues", "Missing")
		for _, r := range runs {
			fmt.Fprintf(os.Stdout, "%-36s  %-30s  %9d  %6d  %7d\n", r.ID, r.StartedAt, r.Documents, r.Issues, r.Missing)
		}
		return nil
	},
}

// --- shared helpers ---

func queryOptsFromFlags(cmd *cobra.Command, args []string) (store.QueryOptions, error) {
	queryText := strings.Join(args, " ")
	risk, _ := cmd.Flags().GetString("risk")
	slug, _ := cmd.Flags().GetString("slug")
	version, _ := cmd.Flags().GetString("version")
	limit, _ := cmd.Flags().GetInt("limit")

	level := types.RiskLevel(strings.ToLower(risk))
	if risk != "" && !level.Valid() {
		return store.QueryOptions{}, fmt.Errorf("unknown risk level %q: use high, medium, low, triggered, or other", risk)
	}

	return store.QueryOptions{
		Query:      queryText,
		RiskLevel:  level,
		Slug:       slug,
		Version:    version,
		MaxResults: limit,
	}, nil
}

func init() {
	// Filters shared by search and export.
	for _, c := range []*cobra.Command{issuesSearchCmd, issuesExportCmd} {
		c.Flags().String("risk", "", "filter by risk level: high, medium, low, triggered, other")
		c.Flags().String("slug", "", "filter by report slug")
		c.Flags().String("version", "", "filter by report version")
	}
	issuesSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	issuesSearchCmd.Flags().Bool("json", false, "output results as JSON")
	issuesExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	runsCmd.Flags().Int("limit", 0, "maximum runs (0 = use default)")

	issuesCmd.AddCommand(issuesSearchCmd)
	issuesCmd.AddCommand(issuesExportCmd)

	rootCmd.AddCommand(issuesCmd)
	rootCmd.AddCommand(runsCmd)
}
