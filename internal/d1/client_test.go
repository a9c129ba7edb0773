package d1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestQuerySendsAuthAndBody(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"result":  []map[string]any{{"results": []map[string]any{{"id": 1, "email": "a@b.c"}}}},
		})
	}))
	defer srv.Close()

	c := NewWithBase(srv.URL, "token-123")
	rows, err := c.Query(context.Background(), "SELECT id FROM users WHERE email = ?", "a@b.c")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if gotPath != "/query" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer token-123" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotBody["sql"] != "SELECT id FROM users WHERE email = ?" {
		t.Fatalf("unexpected sql: %v", gotBody["sql"])
	}
	params, _ := gotBody["params"].([]any)
	if len(params) != 1 || params[0] != "a@b.c" {
		t.Fatalf("unexpected params: %v", gotBody["params"])
	}
	if len(rows) != 1 || rows[0]["email"] != "a@b.c" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestExecUsesRawEndpoint(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	c := NewWithBase(srv.URL, "t")
	if err := c.Exec(context.Background(), "CREATE TABLE x (id INTEGER)"); err != nil {
		t.Fatalf("exec: %v", err)
	}
	if gotPath != "/raw" {
		t.Fatalf("unexpected path %q", gotPath)
	}
}

func TestErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"errors":  []map[string]any{{"code": 7500, "message": "no such table: users"}},
		})
	}))
	defer srv.Close()

	c := NewWithBase(srv.URL, "t")
	_, err := c.Query(context.Background(), "SELECT 1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "no such table") || !strings.Contains(err.Error(), "7500") {
		t.Fatalf("error should carry the API message: %v", err)
	}
}

func TestSuccessFalseWithoutErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false})
	}))
	defer srv.Close()

	c := NewWithBase(srv.URL, "t")
	_, err := c.Query(context.Background(), "SELECT 1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "HTTP 200") {
		t.Fatalf("expected generic message with status, got: %v", err)
	}
}
