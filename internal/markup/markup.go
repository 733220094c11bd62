// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markup reads converted report HTML into a flat sequence of
// block-level nodes: headings, tables, and everything else.
package markup

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Kind tags a block-level node.
type Kind int

const (
	KindOther Kind = iota
	KindHeading
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindTable:
		return "table"
	default:
		return "other"
	}
}

// Block is one block-level node of the document body.
type Block struct {
	Kind Kind

	// Level is 1-3 for headings and 0 otherwise.
	Level int

	// Text is the raw text content of a heading. Callers normalize it.
	Text string

	// Rows holds a table's cells, one slice per tr in document order. Cell
	// text is whitespace-normalized.
	Rows [][]string
}

// containers are wrapper elements whose children are read as if they were
// siblings of the wrapper itself.
var containers = map[string]bool{
	"body":    true,
	"div":     true,
	"section": true,
	"article": true,
	"main":    true,
}

var headingLevels = map[string]int{
	"h1": 1,
	"h2": 2,
	"h3": 3,
}

// Parse reads an HTML document or fragment and returns its block sequence.
func Parse(markup string) ([]Block, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing markup: %w", err)
	}

	var blocks []Block
	collect(doc.Find("body").First(), &blocks)
	return blocks, nil
}

func collect(parent *goquery.Selection, blocks *[]Block) {
	parent.Children().Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)

		if level, ok := headingLevels[name]; ok {
			*blocks = append(*blocks, Block{Kind: KindHeading, Level: level, Text: s.Text()})
			return
		}
		if name == "table" {
			*blocks = append(*blocks, Block{Kind: KindTable, Rows: tableRows(s)})
			return
		}
		if containers[name] {
			collect(s, blocks)
			return
		}
		*blocks = append(*blocks, Block{Kind: KindOther, Text: s.Text()})
	})
}

// tableRows returns the normalized text of every th/td cell, grouped by tr.
// Rows of nested tables are included, in document order.
func tableRows(table *goquery.Selection) [][]string {
	rows := [][]string{}
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := []string{}
		tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, Normalize(cell.Text()))
		})
		rows = append(rows, cells)
	})
	return rows
}

// Normalize collapses every run of whitespace to a single space and trims
// leading and trailing whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
