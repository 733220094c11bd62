// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/report-engine/pkg/types"
)

// minTableRows is a header row plus at least one data row.
const minTableRows = 2

// Field names an Issue attribute filled from a table column.
type Field string

const (
	FieldFinding        Field = "finding"
	FieldRecommendation Field = "recommendation"
)

// ColumnRule locates the column for Field: the leftmost header cell whose
// lower-cased text contains any of Keywords. Rules are independent, so one
// header cell may satisfy several rules. When several rules name the same
// Field, the first one that matches a header cell wins and later ones act as
// fallbacks.
type ColumnRule struct {
	Field    Field
	Keywords []string
}

// DefaultColumns is the header heuristic for report finding tables.
var DefaultColumns = []ColumnRule{
	{Field: FieldFinding, Keywords: []string{"finding"}},
	{Field: FieldRecommendation, Keywords: []string{"recommendation", "action"}},
}

// Stats counts what an extraction pass looked at and what it discarded.
type Stats struct {
	Sections      int
	Tables        int
	SkippedTables int
	DroppedRows   int
}

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Sections:      s.Sections + o.Sections,
		Tables:        s.Tables + o.Tables,
		SkippedTables: s.SkippedTables + o.SkippedTables,
		DroppedRows:   s.DroppedRows + o.DroppedRows,
	}
}

// Extractor turns section tables into Issues. It holds no per-document
// state and is safe for concurrent use.
type Extractor struct {
	columns []ColumnRule
	log     zerolog.Logger
}

// NewExtractor returns an Extractor using DefaultColumns.
func NewExtractor(log zerolog.Logger) *Extractor {
	return &Extractor{columns: DefaultColumns, log: log}
}

// WithColumns returns a copy of e that resolves columns with rules.
func (e *Extractor) WithColumns(rules []ColumnRule) *Extractor {
	return &Extractor{columns: rules, log: e.log}
}

// ExtractSections extracts every table of every section in order. Issue IDs
// run from issue-1 across all sections.
func (e *Extractor) ExtractSections(sections []Section) ([]types.Issue, Stats) {
	issues := []types.Issue{}
	stats := Stats{Sections: len(sections)}
	next := 0

	for _, sec := range sections {
		for _, t := range sec.Tables {
			var (
				found []types.Issue
				ts    Stats
			)
			found, next, ts = e.ExtractTable(t, sec, next)
			issues = append(issues, found...)
			stats = stats.Add(ts)
		}
	}

	return issues, stats
}

// ExtractTable converts the data rows of t into Issues labelled with sec's
// heading and risk level. next is the number of IDs already assigned in the
// document; the updated count is returned. Tables with fewer than two rows
// and rows where every resolved field is empty produce nothing.
func (e *Extractor) ExtractTable(t Table, sec Section, next int) ([]types.Issue, int, Stats) {
	stats := Stats{Tables: 1}

	if len(t) < minTableRows {
		e.log.Debug().
			Str("section", sec.Heading).
			Int("rows", len(t)).
			Msg("skipping table without data rows")
		stats.SkippedTables = 1
		return nil, next, stats
	}

	cols := e.resolve(t[0])

	var issues []types.Issue
	for _, row := range t[1:] {
		finding := cell(row, cols.index(FieldFinding))
		recommendation := cell(row, cols.index(FieldRecommendation))

		if finding == "" && recommendation == "" {
			stats.DroppedRows++
			continue
		}

		next++
		issues = append(issues, types.Issue{
			ID:             fmt.Sprintf("issue-%d", next),
			RiskLevel:      sec.RiskLevel,
			SectionTitle:   sec.Heading,
			Finding:        finding,
			Recommendation: recommendation,
			Extra:          cols.extra(row),
			Raw:            append([]string{}, row...),
		})
	}

	return issues, next, stats
}

// columns maps each rule's field to its column index, or -1 when no header
// cell matched.
type columns map[Field]int

func (c columns) index(f Field) int {
	if i, ok := c[f]; ok {
		return i
	}
	return -1
}

// extra collects the non-empty cells of fields other than finding and
// recommendation. It returns nil when there are none.
func (c columns) extra(row []string) map[string]string {
	var out map[string]string
	for f, i := range c {
		if f == FieldFinding || f == FieldRecommendation {
			continue
		}
		if v := cell(row, i); v != "" {
			if out == nil {
				out = make(map[string]string)
			}
			out[string(f)] = v
		}
	}
	return out
}

func (e *Extractor) resolve(header []string) columns {
	lower := make([]string, len(header))
	for i, h := range header {
		lower[i] = strings.ToLower(h)
	}

	cols := make(columns, len(e.columns))
	for _, rule := range e.columns {
		if i, ok := cols[rule.Field]; ok && i >= 0 {
			continue
		}
		cols[rule.Field] = columnIndex(lower, rule.Keywords)
	}
	return cols
}

func columnIndex(header []string, keywords []string) int {
	for i, h := range header {
		for _, kw := range keywords {
			if strings.Contains(h, kw) {
				return i
			}
		}
	}
	return -1
}

// cell returns row[i], or "" when i is out of range. Data rows shorter than
// the header are expected.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
