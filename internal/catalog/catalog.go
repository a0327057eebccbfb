// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists discovered paper records to a SQLite database.
// The catalog is an export surface for the CLI: discovery itself never
// reads it, so search results are always fresh.
package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rimshaTest/PaperBites/pkg/types"
)

// Store manages the paper catalog SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the catalog database at path and creates the
// schema if it does not exist.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}

	s := &Store{db: db}
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
	const stmt = `CREATE TABLE IF NOT EXISTS papers (
		id TEXT PRIMARY KEY,
		title TEXT,
		authors TEXT,
		summary TEXT,
		url TEXT,
		source TEXT,
		doi TEXT,
		license TEXT,
		can_display_publicly INTEGER,
		published TEXT
	)`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Save upserts the records, keyed by record ID.
func (s *Store) Save(papers []types.PaperRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO papers
		(id, title, authors, summary, url, source, doi, license, can_display_publicly, published)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		title=excluded.title, authors=excluded.authors, summary=excluded.summary,
		url=excluded.url, source=excluded.source, doi=excluded.doi,
		license=excluded.license, can_display_publicly=excluded.can_display_publicly,
		published=excluded.published`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range papers {
		display := 0
		if p.CanDisplayPublicly {
			display = 1
		}
		if _, err := stmt.Exec(p.ID, p.Title, strings.Join(p.Authors, "; "), p.Summary,
			p.URL, p.Source, p.DOI, p.License, display, p.Published); err != nil {
			return fmt.Errorf("inserting paper %q: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// List returns all cataloged records ordered by title.
func (s *Store) List() ([]types.PaperRecord, error) {
	rows, err := s.db.Query(`SELECT id, title, authors, summary, url, source,
		doi, license, can_display_publicly, published FROM papers ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []types.PaperRecord
	for rows.Next() {
		var p types.PaperRecord
		var authors string
		var display int
		if err := rows.Scan(&p.ID, &p.Title, &authors, &p.Summary, &p.URL, &p.Source,
			&p.DOI, &p.License, &display, &p.Published); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		if authors != "" {
			p.Authors = strings.Split(authors, "; ")
		}
		p.CanDisplayPublicly = display == 1
		papers = append(papers, p)
	}
	return papers, rows.Err()
}
