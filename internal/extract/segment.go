// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"github.com/pdiddy/report-engine/internal/markup"
	"github.com/pdiddy/report-engine/pkg/types"
)

// Table is a table's rows of normalized cell text. Row 0 is the header.
type Table [][]string

// Section is the span of a document owned by one heading: the heading's
// normalized text, its risk level, and every table up to the next heading.
type Section struct {
	Heading   string
	RiskLevel types.RiskLevel
	Tables    []Table
}

// Segment groups the tables of a block sequence under their nearest
// preceding heading. Tables that appear before any heading are dropped.
// Headings with no tables still produce a Section with no Tables.
func Segment(blocks []markup.Block) []Section {
	var sections []Section
	current := -1

	for _, b := range blocks {
		switch b.Kind {
		case markup.KindHeading:
			text := markup.Normalize(b.Text)
			sections = append(sections, Section{
				Heading:   text,
				RiskLevel: Classify(text),
			})
			current = len(sections) - 1
		case markup.KindTable:
			if current < 0 {
				continue
			}
			sections[current].Tables = append(sections[current].Tables, Table(b.Rows))
		}
	}

	return sections
}
