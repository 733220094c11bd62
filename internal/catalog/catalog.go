// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog folds processed documents into the recency-ordered
// report index.
package catalog

import (
	"sort"

	"github.com/pdiddy/report-engine/pkg/types"
)

// Counts tallies issues per counted risk level. Issues at RiskOther are
// not counted here; they are the difference between len(issues) and
// Total().
func Counts(issues []types.Issue) types.RiskCounts {
	var c types.RiskCounts
	for _, is := range issues {
		switch is.RiskLevel {
		case types.RiskHigh:
			c.High++
		case types.RiskMedium:
			c.Medium++
		case types.RiskLow:
			c.Low++
		case types.RiskTriggered:
			c.Triggered++
		}
	}
	return c
}

// Entry summarizes doc for the catalog. url is supplied by the caller.
func Entry(doc types.Document, url string) types.IndexEntry {
	return types.IndexEntry{
		Slug:        doc.Slug,
		Version:     doc.Version,
		Title:       doc.Title,
		Date:        doc.Date,
		URL:         url,
		Source:      doc.Source,
		IssuesCount: len(doc.Issues),
		RiskCounts:  Counts(doc.Issues),
	}
}

// Build returns one entry per document, newest first. Dates compare as
// plain strings, which orders ISO dates correctly; an empty date sorts
// last. Entries with equal dates keep the order of docs.
func Build(docs []types.Document, urlFor func(types.Document) string) types.Catalog {
	entries := make(types.Catalog, len(docs))
	for i, d := range docs {
		entries[i] = Entry(d, urlFor(d))
	}
	Sort(entries)
	return entries
}

// Sort orders entries by date descending, keeping the relative order of
// entries that share a date.
func Sort(entries types.Catalog) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})
}
