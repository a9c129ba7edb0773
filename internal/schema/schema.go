// Package schema owns the application's DDL and the process-wide bootstrap
// that applies it at most once.
package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Statements is the fixed, ordered DDL list. Table creation precedes the
// dependent foreign keys and indexes, so the order is load-bearing; treat the
// slice as immutable.
var Statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'member',
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		deleted_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS teams (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		stripe_customer_id TEXT,
		stripe_subscription_id TEXT,
		stripe_product_id TEXT,
		plan_name TEXT,
		subscription_status TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS team_members (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		team_id INTEGER NOT NULL REFERENCES teams(id),
		role TEXT NOT NULL,
		joined_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS invitations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		team_id INTEGER NOT NULL REFERENCES teams(id),
		email TEXT NOT NULL,
		role TEXT NOT NULL,
		invited_by INTEGER NOT NULL REFERENCES users(id),
		invited_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		status TEXT NOT NULL DEFAULT 'pending'
	)`,
	`CREATE TABLE IF NOT EXISTS activity_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		team_id INTEGER NOT NULL REFERENCES teams(id),
		user_id INTEGER REFERENCES users(id),
		action TEXT NOT NULL,
		timestamp TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		ip_address TEXT
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS teams_stripe_customer_id_unique ON teams(stripe_customer_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS teams_stripe_subscription_id_unique ON teams(stripe_subscription_id)`,
}

// Execer is the statement-execution capability the bootstrap needs from a
// database handle. *sql.DB satisfies it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Bootstrapper applies Statements at most once per process. Concurrent
// callers share one in-flight attempt; success is memoized for the process
// lifetime; a failed attempt clears the memo so the next call starts over.
type Bootstrapper struct {
	mu    sync.Mutex
	done  bool
	group singleflight.Group
}

// Ensure runs every statement in declared order, stopping at the first
// failure. A nil handle is a wiring defect and fails immediately.
func (b *Bootstrapper) Ensure(ctx context.Context, h Execer) error {
	if h == nil {
		return errors.New("schema: nil database handle")
	}
	b.mu.Lock()
	if b.done {
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	_, err, _ := b.group.Do("bootstrap", func() (any, error) {
		b.mu.Lock()
		if b.done {
			b.mu.Unlock()
			return nil, nil
		}
		b.mu.Unlock()
		for i, stmt := range Statements {
			if _, err := h.ExecContext(ctx, stmt); err != nil {
				return nil, fmt.Errorf("apply schema statement %d: %w", i+1, err)
			}
		}
		b.mu.Lock()
		b.done = true
		b.mu.Unlock()
		return nil, nil
	})
	return err
}

var defaultBootstrapper Bootstrapper

// Ensure applies the schema through the process-wide bootstrapper.
func Ensure(ctx context.Context, h Execer) error {
	return defaultBootstrapper.Ensure(ctx, h)
}
