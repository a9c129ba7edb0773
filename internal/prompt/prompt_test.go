package prompt

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
)

func TestLineTrimsAndAppliesDefault(t *testing.T) {
	p := New(strings.NewReader("  hello  \n\n"), &bytes.Buffer{})
	v, err := p.Line("name", "fallback")
	if err != nil {
		t.Fatalf("line #1: %v", err)
	}
	if v != "hello" {
		t.Fatalf("expected trimmed input, got %q", v)
	}
	v, err = p.Line("name", "fallback")
	if err != nil {
		t.Fatalf("line #2: %v", err)
	}
	if v != "fallback" {
		t.Fatalf("expected default, got %q", v)
	}
}

func TestLineEOFWithoutDefault(t *testing.T) {
	p := New(strings.NewReader(""), &bytes.Buffer{})
	if _, err := p.Line("name", ""); err == nil {
		t.Fatal("expected error on closed input")
	}
}

func TestRequiredReprompts(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("\n\nfinally\n"), &out)
	v, err := p.Required("name")
	if err != nil {
		t.Fatalf("required: %v", err)
	}
	if v != "finally" {
		t.Fatalf("unexpected value %q", v)
	}
	if !strings.Contains(out.String(), "value is required") {
		t.Fatalf("expected re-prompt notice, got: %s", out.String())
	}
}

func TestPatternRepromptsUntilMatch(t *testing.T) {
	re := regexp.MustCompile(`(?i)^[a-f0-9]{4}$`)
	var out bytes.Buffer
	p := New(strings.NewReader("nope\nzz\nBEEF\n"), &out)
	v, err := p.Pattern("id", re, "must be 4 hex chars")
	if err != nil {
		t.Fatalf("pattern: %v", err)
	}
	if v != "BEEF" {
		t.Fatalf("unexpected value %q", v)
	}
	if strings.Count(out.String(), "must be 4 hex chars") != 2 {
		t.Fatalf("expected two hints, got: %s", out.String())
	}
}

func TestYesNo(t *testing.T) {
	p := New(strings.NewReader("maybe\nYES\n\nn\n"), &bytes.Buffer{})
	v, err := p.YesNo("continue", false)
	if err != nil {
		t.Fatalf("yesno #1: %v", err)
	}
	if !v {
		t.Fatal("expected yes after re-prompt")
	}
	v, err = p.YesNo("continue", true)
	if err != nil {
		t.Fatalf("yesno #2: %v", err)
	}
	if !v {
		t.Fatal("expected empty input to take the yes default")
	}
	v, err = p.YesNo("continue", true)
	if err != nil {
		t.Fatalf("yesno #3: %v", err)
	}
	if v {
		t.Fatal("expected explicit no to win over default")
	}
}

func TestSecretFallsBackToPlainRead(t *testing.T) {
	p := New(strings.NewReader("s3cret\n"), &bytes.Buffer{})
	v, err := p.Secret("key")
	if err != nil {
		t.Fatalf("secret: %v", err)
	}
	if v != "s3cret" {
		t.Fatalf("unexpected value %q", v)
	}
}

func TestSecretAllowsEmpty(t *testing.T) {
	p := New(strings.NewReader("\n"), &bytes.Buffer{})
	v, err := p.Secret("key")
	if err != nil {
		t.Fatalf("secret: %v", err)
	}
	if v != "" {
		t.Fatalf("expected empty, got %q", v)
	}
}
