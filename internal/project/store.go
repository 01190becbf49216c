// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package project

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/storyloom/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNotFound   = errors.New("project not found")
	ErrEmptyTitle = errors.New("project title must not be empty")
)

// timeLayout is a fixed-width RFC3339 form: unlike time.RFC3339Nano it never
// trims zeros, so stored timestamps sort lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// =============================================================================
// STORE
// =============================================================================

// Store persists projects in a SQLite database. The full document is kept
// as JSON alongside indexed metadata columns so listings never deserialize
// chapter prose.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	title_folded  TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	chapter_count INTEGER NOT NULL DEFAULT 0,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL,
	doc           TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_projects_updated ON projects(updated_at DESC);
CREATE INDEX IF NOT EXISTS idx_projects_title ON projects(title_folded);
`

// Open opens (creating if necessary) the project database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows one writer; serialize access through a single conn.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// CRUD OPERATIONS
// =============================================================================

// Create inserts a new project built from title and description and
// returns it.
func (s *Store) Create(ctx context.Context, title, description string) (*Project, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	p := New(title, description)
	if err := s.put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get loads a project by id.
func (s *Store) Get(ctx context.Context, id string) (*Project, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM projects WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	var p Project
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, fmt.Errorf("decode project %s: %w", id, err)
	}
	return &p, nil
}

// Update replaces a stored project, bumping its modification timestamp.
func (s *Store) Update(ctx context.Context, p *Project) (*Project, error) {
	if p.Title == "" {
		return nil, ErrEmptyTitle
	}
	exists, err := s.exists(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p.ID)
	}
	p.Touch()
	if err := s.put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a project by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// List returns project metadata, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Meta, error) {
	return s.list(ctx, `SELECT id, title, description, chapter_count, created_at, updated_at
		FROM projects ORDER BY updated_at DESC`)
}

// Search returns metadata for projects whose title contains the query,
// compared case-folded so "DRAGON" finds "The Dragon's Path".
func (s *Store) Search(ctx context.Context, query string) ([]Meta, error) {
	folded := util.FoldForSearch(query)
	return s.list(ctx, `SELECT id, title, description, chapter_count, created_at, updated_at
		FROM projects WHERE title_folded LIKE ? ESCAPE '\' ORDER BY updated_at DESC`,
		"%"+likeEscape(folded)+"%")
}

// Count returns the number of stored projects.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return n, nil
}

// =============================================================================
// INTERNALS
// =============================================================================

func (s *Store) put(ctx context.Context, p *Project) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO projects (id, title, title_folded, description, chapter_count, created_at, updated_at, doc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			title_folded = excluded.title_folded,
			description = excluded.description,
			chapter_count = excluded.chapter_count,
			updated_at = excluded.updated_at,
			doc = excluded.doc`,
		p.ID, p.Title, util.FoldForSearch(p.Title), p.Description, len(p.Chapters),
		p.CreatedAt.Format(timeLayout), p.UpdatedAt.Format(timeLayout),
		string(doc))
	if err != nil {
		return fmt.Errorf("store project: %w", err)
	}
	return nil
}

func (s *Store) exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM projects WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check project: %w", err)
	}
	return true, nil
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]Meta, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var metas []Meta
	for rows.Next() {
		var m Meta
		var created, updated string
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.ChapterCount, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan project row: %w", err)
		}
		m.CreatedAt, _ = time.Parse(timeLayout, created)
		m.UpdatedAt, _ = time.Parse(timeLayout, updated)
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// likeEscape escapes LIKE metacharacters in user-supplied search text.
func likeEscape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
