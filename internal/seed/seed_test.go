package seed

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

type sqlStore struct {
	db *sql.DB
}

func (s *sqlStore) Exec(ctx context.Context, q string, params ...any) error {
	_, err := s.db.ExecContext(ctx, q, params...)
	return err
}

func (s *sqlStore) Query(ctx context.Context, q string, params ...any) ([]map[string]any, error) {
	rows, err := s.db.QueryContext(ctx, q, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []map[string]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		m := make(map[string]any, len(cols))
		for i, c := range cols {
			m[c] = vals[i]
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type recordingBilling struct {
	products []string
}

func (b *recordingBilling) CreateProduct(ctx context.Context, name string, amountCents, trialDays int64) error {
	b.products = append(b.products, name)
	return nil
}

func openStore(t *testing.T) *sqlStore {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &sqlStore{db: db}
}

func TestRunCreatesDefaults(t *testing.T) {
	store := openStore(t)
	billing := &recordingBilling{}
	if err := Run(context.Background(), Options{Store: store, Billing: billing, Out: io.Discard}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	users, err := store.Query(context.Background(),
		"SELECT password_hash, role FROM users WHERE email = ?", "test@test.com")
	if err != nil || len(users) != 1 {
		t.Fatalf("want one default user, got %d (err %v)", len(users), err)
	}
	hash, _ := users[0]["password_hash"].(string)
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("admin123")); err != nil {
		t.Errorf("password hash does not match default password: %v", err)
	}
	if role := users[0]["role"]; role != "owner" {
		t.Errorf("user role = %v, want owner", role)
	}

	teams, err := store.Query(context.Background(), "SELECT id FROM teams WHERE name = ?", "Test Team")
	if err != nil || len(teams) != 1 {
		t.Fatalf("want one default team, got %d (err %v)", len(teams), err)
	}
	members, err := store.Query(context.Background(), "SELECT role FROM team_members")
	if err != nil || len(members) != 1 {
		t.Fatalf("want one membership, got %d (err %v)", len(members), err)
	}
	if role := members[0]["role"]; role != "owner" {
		t.Errorf("membership role = %v, want owner", role)
	}

	if len(billing.products) != 2 || billing.products[0] != "Base" || billing.products[1] != "Plus" {
		t.Errorf("billing products = %v, want [Base Plus]", billing.products)
	}
}

func TestRunSecondPassSkipsRowsButNotBilling(t *testing.T) {
	store := openStore(t)
	billing := &recordingBilling{}
	for i := 0; i < 2; i++ {
		if err := Run(context.Background(), Options{Store: store, Billing: billing, Out: io.Discard}); err != nil {
			t.Fatalf("Run pass %d: %v", i+1, err)
		}
	}

	users, _ := store.Query(context.Background(), "SELECT id FROM users")
	teams, _ := store.Query(context.Background(), "SELECT id FROM teams")
	members, _ := store.Query(context.Background(), "SELECT id FROM team_members")
	if len(users) != 1 || len(teams) != 1 || len(members) != 1 {
		t.Errorf("rows after two passes: users=%d teams=%d members=%d, want 1 each",
			len(users), len(teams), len(members))
	}
	if len(billing.products) != 4 {
		t.Errorf("billing calls after two passes = %d, want 4", len(billing.products))
	}
}

func TestRunWithoutBilling(t *testing.T) {
	store := openStore(t)
	if err := Run(context.Background(), Options{Store: store}); err != nil {
		t.Fatalf("Run without billing: %v", err)
	}
}

func TestRunNilStore(t *testing.T) {
	if err := Run(context.Background(), Options{}); err == nil {
		t.Fatal("want error for nil store")
	}
}
