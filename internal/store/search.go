// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/pdiddy/report-engine/pkg/types"
)

// QueryOptions holds parameters for issue searches.
type QueryOptions struct {
	// Query is an FTS5 query over section titles, findings and
	// recommendations.
	Query string

	// RiskLevel filters by level.
	RiskLevel types.RiskLevel

	// Slug filters by report.
	Slug string

	// Version filters by report version; only meaningful with Slug.
	Version string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.RiskLevel == "" && q.Slug == "" && q.Version == ""
}

// Result is a stored issue with the metadata of its report.
type Result struct {
	types.Issue `yaml:",inline"`
	Slug    string `json:"slug" yaml:"slug"`
	Version string `json:"version" yaml:"version"`
	Title   string `json:"title" yaml:"title"`
	URL     string `json:"url" yaml:"url"`
}

// Search queries stored issues with optional full-text search and
// filters. Full-text results are ranked by relevance; filter-only results
// are ordered by report and extraction order.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]Result, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	q := sq.Select(
		"i.issue_id", "i.risk_level", "i.section_title", "i.finding", "i.recommendation", "i.raw",
		"i.slug", "i.version", "d.title", "d.url",
	)

	if opts.Query != "" {
		q = q.From("issues_fts").
			Join("issues i ON i.rowid = issues_fts.rowid").
			LeftJoin("documents d ON d.slug = i.slug AND d.version = i.version").
			Where("issues_fts MATCH ?", opts.Query).
			OrderBy("issues_fts.rank")
	} else {
		q = q.From("issues i").
			LeftJoin("documents d ON d.slug = i.slug AND d.version = i.version").
			OrderBy("d.date DESC", "i.slug", "i.version", "i.rowid")
	}

	if opts.RiskLevel != "" {
		q = q.Where(sq.Eq{"i.risk_level": string(opts.RiskLevel)})
	}
	if opts.Slug != "" {
		q = q.Where(sq.Eq{"i.slug": opts.Slug})
	}
	if opts.Version != "" {
		q = q.Where(sq.Eq{"i.version": opts.Version})
	}

	query, args, err := q.Limit(uint64(maxResults)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying issues: %w", err)
	}
	defer rows.Close()

	results := []Result{}
	for rows.Next() {
		var (
			r                  Result
			level              string
			raw, title, urlCol sql.NullString
		)
		if err := rows.Scan(
			&r.ID, &level, &r.SectionTitle, &r.Finding, &r.Recommendation, &raw,
			&r.Slug, &r.Version, &title, &urlCol,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		r.RiskLevel = types.RiskLevel(level)
		r.Raw = []string{}
		if raw.Valid {
			if err := json.Unmarshal([]byte(raw.String), &r.Raw); err != nil {
				return nil, fmt.Errorf("decoding raw cells of %s/%s %s: %w", r.Slug, r.Version, r.ID, err)
			}
		}
		r.Title = title.String
		r.URL = urlCol.String

		results = append(results, r)
	}

	return results, rows.Err()
}

// RunRecord is one entry of the run history.
type RunRecord struct {
	ID         string `json:"id" yaml:"id"`
	StartedAt  string `json:"startedAt" yaml:"started_at"`
	FinishedAt string `json:"finishedAt" yaml:"finished_at"`
	Documents  int    `json:"documents" yaml:"documents"`
	Issues     int    `json:"issues" yaml:"issues"`
	Missing    int    `json:"missing" yaml:"missing"`
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	query, args, err := sq.Select("id", "started_at", "finished_at", "documents", "issues", "missing").
		From("runs").
		OrderBy("started_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	runs := []RunRecord{}
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Documents, &r.Issues, &r.Missing); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
