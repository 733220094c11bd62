// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/report-engine/internal/build"
	"github.com/pdiddy/report-engine/internal/convert"
	"github.com/pdiddy/report-engine/internal/logger"
	"github.com/pdiddy/report-engine/internal/metrics"
	"github.com/pdiddy/report-engine/internal/store"
	"github.com/pdiddy/report-engine/pkg/types"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Convert report documents and generate issue JSON and the catalog",
	Long: `Build reads every report descriptor in the content directory, converts
the referenced DOCX through pandoc, extracts the findings tables, and writes
<out-dir>/<slug>/<version>.json for each report plus <out-dir>/index.json.

Descriptors whose document is missing are reported and skipped. Any
conversion or write failure aborts the build.`,
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	log := newLogger()

	conv, err := convert.New(cfg.Conversion, &http.Client{})
	if err != nil {
		return err
	}

	p := build.New(cfg, conv, logger.Component(log, "build"))

	var m *metrics.Metrics
	metricsFile := viper.GetString("build.metrics_file")
	if metricsFile != "" {
		m = metrics.New()
		p.WithMetrics(m)
	}

	started := time.Now()
	out, err := p.Run(cmd.Context(), os.Stdout)
	if err != nil {
		return err
	}

	if viper.GetBool("build.store") {
		st, err := store.Open(storeConfig())
		if err != nil {
			return err
		}
		defer st.Close()

		id, err := st.SaveRun(cmd.Context(), store.Run{
			StartedAt: started,
			Documents: out.Documents,
			Catalog:   out.Catalog,
			Missing:   out.Summary.Missing,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Stored run %s in %s\n", id, storeConfig().Path)
	}

	if m != nil {
		m.Finish(time.Now())
		if err := m.WriteTextfile(metricsFile); err != nil {
			return err
		}
	}

	return nil
}

// buildConfig assembles the build settings from flags, environment and
// config file.
func buildConfig() types.BuildConfig {
	return types.BuildConfig{
		Conversion: types.ConversionConfig{
			Backend:    types.ConversionBackend(viper.GetString("conversion.backend")),
			Image:      viper.GetString("conversion.image"),
			ServerURL:  viper.GetString("conversion.server_url"),
			Timeout:    viper.GetDuration("conversion.timeout"),
			MaxRetries: viper.GetInt("conversion.max_retries"),
		},
		ContentDir: viper.GetString("build.content_dir"),
		PublicDir:  viper.GetString("build.public_dir"),
		OutputDir:  viper.GetString("build.output_dir"),
		URLPrefix:  viper.GetString("build.url_prefix"),
		Workers:    viper.GetInt("build.workers"),
		ExportYAML: viper.GetBool("build.export_yaml"),
	}
}

func init() {
	f := buildCmd.Flags()
	f.String("content-dir", "content/reports", "directory of report descriptor files")
	f.String("public-dir", "public", "base directory for descriptor docx paths")
	f.String("out-dir", "src/generated", "output directory for report JSON and index.json")
	f.String("url-prefix", "/reports", "prefix of catalog URLs")
	f.Int("workers", 4, "concurrent document conversions")
	f.Bool("yaml", false, "also write index.yaml")
	f.String("backend", "pandoc", "conversion backend: pandoc, server, or html")
	f.String("image", "pandoc/core:3.5", "pandoc container image")
	f.String("server-url", "", "pandoc-server URL for the server backend")
	f.Duration("timeout", 2*time.Minute, "per-document conversion timeout")
	f.Int("max-retries", 3, "retries on HTTP 429/503 for the server backend")
	f.Bool("store", false, "persist the run to the SQLite store")
	f.String("metrics-file", "", "write Prometheus textfile metrics to this path")

	for key, flag := range map[string]string{
		"build.content_dir":      "content-dir",
		"build.public_dir":       "public-dir",
		"build.output_dir":       "out-dir",
		"build.url_prefix":       "url-prefix",
		"build.workers":          "workers",
		"build.export_yaml":      "yaml",
		"build.store":            "store",
		"build.metrics_file":     "metrics-file",
		"conversion.backend":     "backend",
		"conversion.image":       "image",
		"conversion.server_url":  "server-url",
		"conversion.timeout":     "timeout",
		"conversion.max_retries": "max-retries",
	} {
		viper.BindPFlag(key, f.Lookup(flag))
	}

	rootCmd.AddCommand(buildCmd)
}
