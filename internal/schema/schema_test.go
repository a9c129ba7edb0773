package schema

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

type countingExecer struct {
	mu    sync.Mutex
	stmts []string
	fail  atomic.Bool
}

func (c *countingExecer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if c.fail.Load() {
		return nil, errors.New("injected failure")
	}
	c.mu.Lock()
	c.stmts = append(c.stmts, query)
	c.mu.Unlock()
	return nil, nil
}

func (c *countingExecer) executed() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.stmts))
	copy(out, c.stmts)
	return out
}

func TestEnsureNilHandle(t *testing.T) {
	var b Bootstrapper
	if err := b.Ensure(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil handle")
	}
}

func TestEnsureRunsStatementsOnceInOrder(t *testing.T) {
	var b Bootstrapper
	h := &countingExecer{}

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = b.Ensure(context.Background(), h)
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d: %v", i, err)
		}
	}

	got := h.executed()
	if len(got) != len(Statements) {
		t.Fatalf("expected %d statements exactly once, got %d", len(Statements), len(got))
	}
	for i := range got {
		if got[i] != Statements[i] {
			t.Fatalf("statement %d out of order", i)
		}
	}

	// Subsequent calls are memoized.
	if err := b.Ensure(context.Background(), h); err != nil {
		t.Fatalf("memoized call: %v", err)
	}
	if len(h.executed()) != len(Statements) {
		t.Fatal("memoized call re-issued statements")
	}
}

func TestEnsureResetsAfterFailure(t *testing.T) {
	var b Bootstrapper
	h := &countingExecer{}
	h.fail.Store(true)

	if err := b.Ensure(context.Background(), h); err == nil {
		t.Fatal("expected first attempt to fail")
	}
	if n := len(h.executed()); n != 0 {
		t.Fatalf("failed attempt recorded %d statements", n)
	}

	h.fail.Store(false)
	if err := b.Ensure(context.Background(), h); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if n := len(h.executed()); n != len(Statements) {
		t.Fatalf("expected full second attempt, got %d statements", n)
	}
}

func TestStatementOrderTablesBeforeIndexes(t *testing.T) {
	firstIndex := -1
	for i, stmt := range Statements {
		if strings.HasPrefix(stmt, "CREATE UNIQUE INDEX") {
			firstIndex = i
			break
		}
	}
	if firstIndex < 0 {
		t.Fatal("expected unique index statements")
	}
	for _, stmt := range Statements[firstIndex:] {
		if strings.HasPrefix(stmt, "CREATE TABLE") {
			t.Fatal("table creation after index creation")
		}
	}
}
