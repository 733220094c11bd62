// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package build runs the report pipeline: load descriptors, convert each
// report document to HTML, extract its issues, and write per-document
// JSON plus the catalog.
package build

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.yaml.in/yaml/v3"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/report-engine/internal/catalog"
	"github.com/pdiddy/report-engine/internal/convert"
	"github.com/pdiddy/report-engine/internal/extract"
	"github.com/pdiddy/report-engine/internal/metrics"
	"github.com/pdiddy/report-engine/pkg/types"
)

const (
	defaultWorkers   = 4
	defaultURLPrefix = "/reports"

	// IndexFile is the catalog file name inside the output directory.
	IndexFile = "index.json"
	indexYAML = "index.yaml"
)

// Summary holds counts from a build run.
type Summary struct {
	Converted int
	Missing   int
	Issues    int
}

// Output is everything a build produced.
type Output struct {
	Documents []types.Document
	Catalog   types.Catalog
	Summary   Summary
}

// Pipeline converts and extracts report documents.
type Pipeline struct {
	cfg       types.BuildConfig
	conv      convert.Converter
	extractor *extract.Extractor
	log       zerolog.Logger
	metrics   *metrics.Metrics
}

// New returns a pipeline using conv for document conversion.
func New(cfg types.BuildConfig, conv convert.Converter, log zerolog.Logger) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.URLPrefix == "" {
		cfg.URLPrefix = defaultURLPrefix
	}
	return &Pipeline{
		cfg:       cfg,
		conv:      conv,
		extractor: extract.NewExtractor(log),
		log:       log,
	}
}

// WithMetrics records per-document metrics on m.
func (p *Pipeline) WithMetrics(m *metrics.Metrics) *Pipeline {
	p.metrics = m
	return p
}

// outcome is the result of one job. Exactly one of doc and missing is set.
type outcome struct {
	doc     *types.Document
	stats   extract.Stats
	took    time.Duration
	missing error
}

// Run processes every descriptor in the content directory. Documents are
// converted concurrently, then folded into the catalog in descriptor order
// so entries with equal dates keep that order. Missing sources are
// reported on w and skipped; any other failure aborts the run.
func (p *Pipeline) Run(ctx context.Context, w io.Writer) (Output, error) {
	jobs, err := LoadDescriptors(p.cfg.ContentDir)
	if err != nil {
		return Output{}, err
	}

	results := make([]outcome, len(jobs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)
	for i, job := range jobs {
		g.Go(func() error {
			res, err := p.process(gCtx, job)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Output{}, err
	}

	var out Output
	out.Documents = []types.Document{}
	for i, res := range results {
		d := jobs[i].Descriptor
		if res.missing != nil {
			p.log.Warn().Str("file", jobs[i].File).Err(res.missing).Msg("skipping report without source")
			fmt.Fprintf(w, "missing   %s %s: %v\n", d.Slug, d.Version, res.missing)
			if p.metrics != nil {
				p.metrics.RecordMissing()
			}
			out.Summary.Missing++
			continue
		}

		doc := *res.doc
		if err := p.writeDocument(doc); err != nil {
			return Output{}, err
		}
		p.log.Info().
			Str("slug", doc.Slug).
			Str("version", doc.Version).
			Int("issues", len(doc.Issues)).
			Int("skipped_tables", res.stats.SkippedTables).
			Int("dropped_rows", res.stats.DroppedRows).
			Dur("conversion", res.took).
			Msg("report converted")
		fmt.Fprintf(w, "converted %s/%s (%d issues)\n", doc.Slug, doc.Version, len(doc.Issues))
		if p.metrics != nil {
			p.metrics.RecordDocument(doc, res.stats, res.took)
		}

		out.Documents = append(out.Documents, doc)
		out.Summary.Converted++
		out.Summary.Issues += len(doc.Issues)
	}

	out.Catalog = catalog.Build(out.Documents, p.URL)
	if err := p.writeCatalog(out.Catalog); err != nil {
		return Output{}, err
	}

	fmt.Fprintf(w, "\nGenerated %d report versions into %s\n", len(out.Catalog), p.cfg.OutputDir)
	return out, nil
}

// process converts and extracts one descriptor. A missing source is
// returned in the outcome rather than as an error.
func (p *Pipeline) process(ctx context.Context, job Job) (outcome, error) {
	d := job.Descriptor

	path, err := sourcePath(p.cfg.PublicDir, d)
	if errors.Is(err, ErrMissingSource) {
		return outcome{missing: err}, nil
	}
	if err != nil {
		return outcome{}, err
	}

	start := time.Now()
	conv, err := p.conv.Convert(ctx, path)
	if err != nil {
		return outcome{}, fmt.Errorf("converting %s %s: %w", d.Slug, d.Version, err)
	}
	took := time.Since(start)

	res, err := p.extractor.Document(conv.HTML)
	if err != nil {
		return outcome{}, fmt.Errorf("extracting %s %s: %w", d.Slug, d.Version, err)
	}

	doc := Assemble(d, conv, res.Issues)
	return outcome{doc: &doc, stats: res.Stats, took: took}, nil
}

// Assemble builds the Document for d from its conversion and issues.
func Assemble(d types.Descriptor, conv convert.Conversion, issues []types.Issue) types.Document {
	title := d.Title
	if title == "" {
		title = d.Slug + " " + d.Version
	}
	msgs := conv.Messages
	if msgs == nil {
		msgs = []string{}
	}
	if issues == nil {
		issues = []types.Issue{}
	}
	return types.Document{
		Slug:               SafeSlug(d.Slug),
		Version:            SafeSlug(d.Version),
		Title:              title,
		Date:               d.Date,
		Notes:              d.Notes,
		Source:             d.Source,
		HTML:               conv.HTML,
		Issues:             issues,
		ConversionMessages: msgs,
	}
}

// URL returns the catalog link for doc.
func (p *Pipeline) URL(doc types.Document) string {
	return strings.TrimSuffix(p.cfg.URLPrefix, "/") + "/" + doc.Slug + "/" + doc.Version
}

// DocumentPath returns where the JSON for slug/version is written.
func DocumentPath(outDir, slug, version string) string {
	return filepath.Join(outDir, slug, version+".json")
}

func (p *Pipeline) writeDocument(doc types.Document) error {
	return writeJSON(DocumentPath(p.cfg.OutputDir, doc.Slug, doc.Version), doc)
}

func (p *Pipeline) writeCatalog(c types.Catalog) error {
	if err := writeJSON(filepath.Join(p.cfg.OutputDir, IndexFile), c); err != nil {
		return err
	}
	if !p.cfg.ExportYAML {
		return nil
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(p.cfg.OutputDir, indexYAML)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
