// Package sqlite opens local sqlite databases, including the local D1 state
// wrangler keeps under .wrangler/. Used by `edgekit bootstrap --local` and by
// tests that need a real statement executor.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) a sqlite database at path.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.db.ExecContext(ctx, query, args...)
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.db.QueryContext(ctx, query, args...)
}

// FindWranglerLocal locates the sqlite file backing wrangler's local D1
// emulation under projectDir. Wrangler names the file after an internal hash,
// so the lookup globs and, when several exist, picks the most recently
// modified one.
func FindWranglerLocal(projectDir string) (string, error) {
	pattern := filepath.Join(projectDir, ".wrangler", "state", "v3", "d1", "miniflare-D1DatabaseObject", "*.sqlite")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("scan local D1 state: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no local D1 database found under %s (run `wrangler dev` once to create it)", projectDir)
	}
	sort.Slice(matches, func(i, j int) bool {
		return modTime(matches[i]).After(modTime(matches[j]))
	})
	return matches[0], nil
}

func modTime(path string) time.Time {
	st, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return st.ModTime()
}
