// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RiskLevel classifies a report section by the risk taxonomy inferred from
// its heading text. The set is closed; every heading maps to exactly one value.
type RiskLevel string

const (
	RiskHigh      RiskLevel = "high"
	RiskMedium    RiskLevel = "medium"
	RiskLow       RiskLevel = "low"
	RiskTriggered RiskLevel = "triggered"
	RiskOther     RiskLevel = "other"
)

// CountedLevels lists the risk levels that carry an explicit count in the
// catalog, in catalog order. RiskOther is only implied by IssuesCount.
var CountedLevels = []RiskLevel{RiskHigh, RiskMedium, RiskLow, RiskTriggered}

// Valid reports whether l is one of the five known levels.
func (l RiskLevel) Valid() bool {
	switch l {
	case RiskHigh, RiskMedium, RiskLow, RiskTriggered, RiskOther:
		return true
	}
	return false
}

// Issue is one extracted row of a risk finding table.
type Issue struct {
	// ID is "issue-<n>", assigned in extraction order starting at 1 and
	// contiguous within a single document.
	ID string `json:"id" yaml:"id"`

	// RiskLevel is inherited from the enclosing section heading.
	RiskLevel RiskLevel `json:"riskLevel" yaml:"risk_level"`

	// SectionTitle is the normalized heading text of the enclosing section.
	SectionTitle string `json:"sectionTitle" yaml:"section_title"`

	Finding        string `json:"finding" yaml:"finding"`
	Recommendation string `json:"recommendation" yaml:"recommendation"`

	// Extra holds cells of additional configured columns (owner, due date),
	// keyed by field name. Nil unless extra columns are configured.
	Extra map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`

	// Raw holds every normalized cell of the source row, for audit.
	Raw []string `json:"raw" yaml:"raw"`
}

// Descriptor is the authored metadata file that points at one report version.
type Descriptor struct {
	Slug    string `json:"slug" yaml:"slug" validate:"required"`
	Version string `json:"version" yaml:"version" validate:"required"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	Date    string `json:"date,omitempty" yaml:"date,omitempty"`
	Notes   string `json:"notes,omitempty" yaml:"notes,omitempty"`

	// Source is the report document path relative to the public directory.
	// A leading slash is tolerated.
	Source string `json:"docx,omitempty" yaml:"docx,omitempty"`
}

// Document is the processed output for one report version.
type Document struct {
	Slug    string `json:"slug" yaml:"slug"`
	Version string `json:"version" yaml:"version"`
	Title   string `json:"title" yaml:"title"`
	Date    string `json:"date,omitempty" yaml:"date,omitempty"`
	Notes   string `json:"notes" yaml:"notes"`
	Source  string `json:"docx,omitempty" yaml:"docx,omitempty"`

	// HTML is the converted markup, kept verbatim.
	HTML string `json:"html" yaml:"html"`

	Issues []Issue `json:"issues" yaml:"issues"`

	// ConversionMessages are forwarded unchanged from the converter.
	ConversionMessages []string `json:"conversionMessages" yaml:"conversion_messages"`
}

// RiskCounts holds the number of issues per counted risk level.
type RiskCounts struct {
	High      int `json:"high" yaml:"high"`
	Medium    int `json:"medium" yaml:"medium"`
	Low       int `json:"low" yaml:"low"`
	Triggered int `json:"triggered" yaml:"triggered"`
}

// Map returns the counts keyed by risk level.
func (c RiskCounts) Map() map[RiskLevel]int {
	return map[RiskLevel]int{
		RiskHigh:      c.High,
		RiskMedium:    c.Medium,
		RiskLow:       c.Low,
		RiskTriggered: c.Triggered,
	}
}

// Total returns the sum of the counted levels.
func (c RiskCounts) Total() int {
	return c.High + c.Medium + c.Low + c.Triggered
}

// IndexEntry summarizes one Document in the catalog. The risk counts are
// inlined so each entry carries high, medium, low and triggered fields.
type IndexEntry struct {
	Slug        string `json:"slug" yaml:"slug"`
	Version     string `json:"version" yaml:"version"`
	Title       string `json:"title" yaml:"title"`
	Date        string `json:"date,omitempty" yaml:"date,omitempty"`
	URL         string `json:"url" yaml:"url"`
	Source      string `json:"docx,omitempty" yaml:"docx,omitempty"`
	IssuesCount int    `json:"issuesCount" yaml:"issues_count"`
	RiskCounts  `yaml:",inline"`
}

// Counts returns the per-level counts as a map.
func (e IndexEntry) Counts() map[RiskLevel]int {
	return e.RiskCounts.Map()
}

// Catalog is the recency-ordered list of all processed documents.
type Catalog []IndexEntry
