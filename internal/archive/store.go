// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps a local SQLite record of every paper the
// pipeline has delivered, for offline queries and stats.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/cryptodigest/eprint-watch/pkg/types"
)

// Store manages the paper archive database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive database at path, creating the
// schema if it does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
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
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT,
			abstract TEXT,
			authors TEXT,
			categories TEXT,
			keywords TEXT,
			url TEXT,
			pdf_url TEXT,
			published_date TEXT,
			posted_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_posted_at ON papers(posted_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record upserts a delivered paper. Re-recording the same ID refreshes
// the metadata but keeps the original posted_at.
func (s *Store) Record(ctx context.Context, paper *types.Paper) error {
	authorsJSON, _ := json.Marshal(paper.Authors)
	categoriesJSON, _ := json.Marshal(paper.Categories)
	keywordsJSON, _ := json.Marshal(paper.Keywords)

	dateStr := ""
	if !paper.PublishedDate.IsZero() {
		dateStr = paper.PublishedDate.Format(time.RFC3339)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO papers (id, title, abstract, authors, categories, keywords, url, pdf_url, published_date, posted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, abstract=excluded.abstract, authors=excluded.authors,
			categories=excluded.categories, keywords=excluded.keywords,
			url=excluded.url, pdf_url=excluded.pdf_url, published_date=excluded.published_date`,
		paper.ID, paper.Title, paper.Abstract,
		string(authorsJSON), string(categoriesJSON), string(keywordsJSON),
		paper.URL, paper.PDFURL, dateStr,
		time.Now().In(types.KST).Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting paper %s: %w", paper.ID, err)
	}
	return nil
}

// Count returns the number of archived papers.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return n, nil
}

// Entry is one archived paper as listed by Recent.
type Entry struct {
	ID            string
	Title         string
	PublishedDate string
	PostedAt      string
}

// Recent lists the most recently posted papers, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, published_date, posted_at FROM papers
		 ORDER BY posted_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent papers: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Title, &e.PublishedDate, &e.PostedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
