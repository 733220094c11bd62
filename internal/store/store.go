// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists build runs in a SQLite database: the documents
// and issues of the latest run, a history of runs, and an FTS5 index over
// issue text.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/report-engine/internal/catalog"
	"github.com/pdiddy/report-engine/pkg/types"
)

const (
	defaultMaxResults = 20

	// timeFormat has a fixed width so stored timestamps sort as text.
	timeFormat = "2006-01-02T15:04:05.000000000Z07:00"
)

// Store manages the report SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the database at cfg.Path and creates the schema
// if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			documents INTEGER NOT NULL,
			issues INTEGER NOT NULL,
			missing INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS documents (
			slug TEXT NOT NULL,
			version TEXT NOT NULL,
			run_id TEXT NOT NULL REFERENCES runs(id),
			title TEXT,
			date TEXT,
			notes TEXT,
			docx TEXT,
			url TEXT,
			issues_count INTEGER,
			high INTEGER,
			medium INTEGER,
			low INTEGER,
			triggered INTEGER,
			PRIMARY KEY (slug, version)
		)`,
		`CREATE TABLE IF NOT EXISTS issues (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			slug TEXT NOT NULL,
			version TEXT NOT NULL,
			issue_id TEXT NOT NULL,
			risk_level TEXT NOT NULL,
			section_title TEXT,
			finding TEXT,
			recommendation TEXT,
			raw TEXT,
			UNIQUE (slug, version, issue_id),
			FOREIGN KEY (slug, version) REFERENCES documents(slug, version) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_issues_risk_level ON issues(risk_level)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='issues_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE issues_fts USING fts5(
				section_title, finding, recommendation,
				content=issues, content_rowid=rowid
			)`,
			`CREATE TRIGGER issues_ai AFTER INSERT ON issues BEGIN
				INSERT INTO issues_fts(rowid, section_title, finding, recommendation)
				VALUES (new.rowid, new.section_title, new.finding, new.recommendation);
			END`,
			`CREATE TRIGGER issues_ad AFTER DELETE ON issues BEGIN
				INSERT INTO issues_fts(issues_fts, rowid, section_title, finding, recommendation)
				VALUES ('delete', old.rowid, old.section_title, old.finding, old.recommendation);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Run is one build to persist.
type Run struct {
	StartedAt time.Time
	Documents []types.Document
	Catalog   types.Catalog
	Missing   int
}

// SaveRun records a run and replaces the stored documents and issues with
// those of the run. It returns the new run ID.
func (s *Store) SaveRun(ctx context.Context, run Run) (uuid.UUID, error) {
	id := uuid.New()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	issueTotal := 0
	for _, d := range run.Documents {
		issueTotal += len(d.Issues)
	}

	if err := execBuilder(ctx, tx, sq.Insert("runs").
		Columns("id", "started_at", "finished_at", "documents", "issues", "missing").
		Values(id.String(), run.StartedAt.UTC().Format(timeFormat), time.Now().UTC().Format(timeFormat),
			len(run.Documents), issueTotal, run.Missing)); err != nil {
		return uuid.Nil, fmt.Errorf("inserting run: %w", err)
	}

	for _, table := range []string{"issues", "documents"} {
		if err := execBuilder(ctx, tx, sq.Delete(table)); err != nil {
			return uuid.Nil, fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	urls := make(map[string]string, len(run.Catalog))
	for _, e := range run.Catalog {
		urls[e.Slug+"/"+e.Version] = e.URL
	}

	for _, d := range run.Documents {
		if err := insertDocument(ctx, tx, id, d, urls[d.Slug+"/"+d.Version]); err != nil {
			return uuid.Nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// insertDocument stores d and its issues. A document that shares its slug and
// version with an earlier one in the same run replaces it, like the output
// file of the same name.
func insertDocument(ctx context.Context, tx *sql.Tx, runID uuid.UUID, d types.Document, url string) error {
	key := sq.Eq{"slug": d.Slug, "version": d.Version}
	for _, table := range []string{"issues", "documents"} {
		if err := execBuilder(ctx, tx, sq.Delete(table).Where(key)); err != nil {
			return fmt.Errorf("replacing %s of %s/%s: %w", table, d.Slug, d.Version, err)
		}
	}

	c := catalog.Counts(d.Issues)
	err := execBuilder(ctx, tx, sq.Insert("documents").
		Columns("slug", "version", "run_id", "title", "date", "notes", "docx", "url",
			"issues_count", "high", "medium", "low", "triggered").
		Values(d.Slug, d.Version, runID.String(), d.Title, d.Date, d.Notes, d.Source, url,
			len(d.Issues), c.High, c.Medium, c.Low, c.Triggered))
	if err != nil {
		return fmt.Errorf("inserting document %s/%s: %w", d.Slug, d.Version, err)
	}

	if len(d.Issues) == 0 {
		return nil
	}

	ins := sq.Insert("issues").
		Columns("slug", "version", "issue_id", "risk_level", "section_title", "finding", "recommendation", "raw")
	for _, is := range d.Issues {
		raw, err := json.Marshal(is.Raw)
		if err != nil {
			return fmt.Errorf("encoding raw cells of %s: %w", is.ID, err)
		}
		ins = ins.Values(d.Slug, d.Version, is.ID, string(is.RiskLevel), is.SectionTitle,
			is.Finding, is.Recommendation, string(raw))
	}
	if err := execBuilder(ctx, tx, ins); err != nil {
		return fmt.Errorf("inserting issues of %s/%s: %w", d.Slug, d.Version, err)
	}
	return nil
}

func execBuilder(ctx context.Context, tx *sql.Tx, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("building statement: %w", err)
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}
