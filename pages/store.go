// Package pages provides the SQLite persistence layer for generated pages.
//
// Pages are keyed by their normalized request path. Lookups are exact-string
// matches; the store performs no prefix matching and no case folding. A page
// exists if and only if at least one generation completed for its path, so
// PromptHistory is never empty on a stored page.
package pages

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout is ISO-8601 UTC with a fixed-width fraction. updated_at is
// sorted as text, so the format must make string order equal time order;
// RFC3339Nano trims trailing zeros and breaks that.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store is the pages database handle.
type Store struct {
	DB *sql.DB
}

// Open opens (or creates) the pages SQLite database at path, applies the
// production pragmas and the pages schema. Safe to call on every startup,
// including over an existing populated database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("pages: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("pages: open: %w", err)
	}
	if path == ":memory:" {
		// Each connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pages: %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("pages: apply schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pages: ping: %w", err)
	}

	return &Store{DB: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Get returns the page stored at exactly path, or nil if none exists.
func (s *Store) Get(ctx context.Context, path string) (*Page, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT path, html_content, prompt_history, created_at, updated_at
		FROM pages WHERE path = ?`, path)
	return scanPage(row)
}

// Save stores html as the content of path and appends prompt to the page's
// history. Creates the page if it does not exist yet. The write is a single
// upsert statement, so concurrent saves to the same path serialize inside
// SQLite: last writer wins on html_content, both history appends land, and
// the stored JSON array is never left partially written.
func (s *Store) Save(ctx context.Context, path, html, prompt string) (*Page, error) {
	now := time.Now().UTC().Format(timeLayout)

	row := s.DB.QueryRowContext(ctx, `
		INSERT INTO pages (path, html_content, prompt_history, created_at, updated_at)
		VALUES (?, ?, json_array(?), ?, ?)
		ON CONFLICT(path) DO UPDATE SET
		    html_content   = excluded.html_content,
		    prompt_history = json_insert(pages.prompt_history, '$[#]', ?),
		    updated_at     = excluded.updated_at
		RETURNING path, html_content, prompt_history, created_at, updated_at`,
		path, html, prompt, now, now, prompt)

	page, err := scanPage(row)
	if err != nil {
		return nil, fmt.Errorf("pages: save %s: %w", path, err)
	}
	if page == nil {
		return nil, fmt.Errorf("pages: save %s: no row returned", path)
	}
	return page, nil
}

// List returns all stored pages ordered by most recently updated.
// Content is included; callers that only need metadata can ignore it.
func (s *Store) List(ctx context.Context) ([]*Page, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT path, html_content, prompt_history, created_at, updated_at
		FROM pages ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Page
	for rows.Next() {
		var p Page
		var history string
		if err := rows.Scan(&p.Path, &p.HTMLContent, &history, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(history), &p.PromptHistory); err != nil {
			return nil, fmt.Errorf("pages: history for %s: %w", p.Path, err)
		}
		result = append(result, &p)
	}
	return result, rows.Err()
}

func scanPage(row *sql.Row) (*Page, error) {
	var p Page
	var history string
	err := row.Scan(&p.Path, &p.HTMLContent, &history, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(history), &p.PromptHistory); err != nil {
		return nil, fmt.Errorf("pages: history for %s: %w", p.Path, err)
	}
	return &p, nil
}
