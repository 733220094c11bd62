// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract identifies risk issues within converted report markup.
// A document is segmented into heading-scoped sections, each section is
// classified by its heading text, and every finding table is turned into
// Issue records.
//
// Extraction never fails on well-formed input: tables and rows that do not
// fit the heuristics are skipped and show up only as fewer issues.
package extract

import (
	"github.com/rs/zerolog"

	"github.com/pdiddy/report-engine/internal/markup"
	"github.com/pdiddy/report-engine/pkg/types"
)

// Result is the outcome of extracting one document.
type Result struct {
	Issues []types.Issue
	Stats  Stats
}

// Document extracts the issues of one document's markup. The error is
// non-nil only when the markup cannot be read at all.
func (e *Extractor) Document(html string) (Result, error) {
	blocks, err := markup.Parse(html)
	if err != nil {
		return Result{}, err
	}

	issues, stats := e.ExtractSections(Segment(blocks))
	return Result{Issues: issues, Stats: stats}, nil
}

// Issues is a convenience wrapper that extracts with the default column
// rules and no logging.
func Issues(html string) ([]types.Issue, error) {
	res, err := NewExtractor(zerolog.Nop()).Document(html)
	if err != nil {
		return nil, err
	}
	return res.Issues, nil
}
