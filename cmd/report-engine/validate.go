// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/report-engine/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check generated files against their JSON Schemas",
	Long: `Validate reads index.json from the output directory, validates it and
every report file it lists against the embedded schemas, and checks that
each catalog entry's issue count matches its report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir := viper.GetString("build.output_dir")
		if cmd.Flags().Changed("out-dir") {
			outDir, _ = cmd.Flags().GetString("out-dir")
		}

		report, err := schemas.ValidateOutput(outDir)
		if err != nil {
			return err
		}

		for _, fe := range report.Errors {
			fmt.Fprintf(os.Stdout, "invalid %s: %v\n", fe.Path, fe.Err)
		}
		fmt.Fprintf(os.Stdout, "\nchecked: %d, invalid: %d\n", report.Checked, len(report.Errors))

		if !report.OK() {
			return fmt.Errorf("%d file(s) failed validation", len(report.Errors))
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().String("out-dir", "", "output directory to validate (default: the build output directory)")

	rootCmd.AddCommand(validateCmd)
}
