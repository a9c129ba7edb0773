// Package seed applies the schema through the remote D1 query API and inserts
// the starter's default data: one user, one team, one membership, and the two
// baseline billing products.
package seed

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/crypto/bcrypt"

	"github.com/edgekit-dev/edgekit/internal/schema"
)

const (
	defaultEmail    = "test@test.com"
	defaultPassword = "admin123"
	defaultTeamName = "Test Team"
	ownerRole       = "owner"
)

// Store is the remote statement executor surface the routine needs; the D1
// client satisfies it.
type Store interface {
	Exec(ctx context.Context, sql string, params ...any) error
	Query(ctx context.Context, sql string, params ...any) ([]map[string]any, error)
}

// BillingCreator creates one product with one recurring monthly price.
type BillingCreator interface {
	CreateProduct(ctx context.Context, name string, amountCents, trialDays int64) error
}

type Options struct {
	Store   Store
	Billing BillingCreator

	// Progress output; defaults to io.Discard.
	Out io.Writer
}

// Run seeds the database. User, team, and membership are check-then-insert
// and safe to re-run. The billing step is not: every run creates fresh Stripe
// products, matching the starter's historical behavior.
func Run(ctx context.Context, opts Options) error {
	if opts.Store == nil {
		return fmt.Errorf("seed: nil store")
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	fmt.Fprintln(out, "applying schema...")
	for i, stmt := range schema.Statements {
		if err := opts.Store.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	userID, err := ensureUser(ctx, opts.Store, out)
	if err != nil {
		return err
	}
	teamID, err := ensureTeam(ctx, opts.Store, out)
	if err != nil {
		return err
	}
	if err := ensureMembership(ctx, opts.Store, out, userID, teamID); err != nil {
		return err
	}

	if opts.Billing != nil {
		fmt.Fprintln(out, "creating Stripe products...")
		if err := opts.Billing.CreateProduct(ctx, "Base", 800, 7); err != nil {
			return fmt.Errorf("create Base product: %w", err)
		}
		if err := opts.Billing.CreateProduct(ctx, "Plus", 1200, 7); err != nil {
			return fmt.Errorf("create Plus product: %w", err)
		}
	}

	fmt.Fprintln(out, "seed complete")
	return nil
}

func ensureUser(ctx context.Context, store Store, out io.Writer) (int64, error) {
	rows, err := store.Query(ctx, "SELECT id FROM users WHERE email = ?", defaultEmail)
	if err != nil {
		return 0, fmt.Errorf("look up default user: %w", err)
	}
	if len(rows) > 0 {
		fmt.Fprintf(out, "user %s already present\n", defaultEmail)
		return rowID(rows[0])
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash default password: %w", err)
	}
	if err := store.Exec(ctx,
		"INSERT INTO users (email, password_hash, role) VALUES (?, ?, ?)",
		defaultEmail, string(hash), ownerRole,
	); err != nil {
		return 0, fmt.Errorf("insert default user: %w", err)
	}
	rows, err = store.Query(ctx, "SELECT id FROM users WHERE email = ?", defaultEmail)
	if err != nil || len(rows) == 0 {
		return 0, fmt.Errorf("re-select default user after insert: %w", err)
	}
	fmt.Fprintf(out, "created user %s\n", defaultEmail)
	return rowID(rows[0])
}

func ensureTeam(ctx context.Context, store Store, out io.Writer) (int64, error) {
	rows, err := store.Query(ctx, "SELECT id FROM teams WHERE name = ?", defaultTeamName)
	if err != nil {
		return 0, fmt.Errorf("look up default team: %w", err)
	}
	if len(rows) > 0 {
		fmt.Fprintf(out, "team %q already present\n", defaultTeamName)
		return rowID(rows[0])
	}

	if err := store.Exec(ctx, "INSERT INTO teams (name) VALUES (?)", defaultTeamName); err != nil {
		return 0, fmt.Errorf("insert default team: %w", err)
	}
	rows, err = store.Query(ctx, "SELECT id FROM teams WHERE name = ?", defaultTeamName)
	if err != nil || len(rows) == 0 {
		return 0, fmt.Errorf("re-select default team after insert: %w", err)
	}
	fmt.Fprintf(out, "created team %q\n", defaultTeamName)
	return rowID(rows[0])
}

func ensureMembership(ctx context.Context, store Store, out io.Writer, userID, teamID int64) error {
	rows, err := store.Query(ctx,
		"SELECT id FROM team_members WHERE user_id = ? AND team_id = ?", userID, teamID)
	if err != nil {
		return fmt.Errorf("look up membership: %w", err)
	}
	if len(rows) > 0 {
		fmt.Fprintln(out, "membership already present")
		return nil
	}
	if err := store.Exec(ctx,
		"INSERT INTO team_members (user_id, team_id, role) VALUES (?, ?, ?)",
		userID, teamID, ownerRole,
	); err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}
	fmt.Fprintln(out, "created membership")
	return nil
}

// rowID extracts the id column, tolerating the numeric types different
// executors produce (JSON float64 from D1, int64 from database/sql).
func rowID(row map[string]any) (int64, error) {
	switch v := row["id"].(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("row id has unexpected type %T", row["id"])
	}
}
