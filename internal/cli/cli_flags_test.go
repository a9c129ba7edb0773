package cli

import (
	"strings"
	"testing"
)

func TestReorderFlagsMovesFlagsBeforePositionals(t *testing.T) {
	got := reorderFlags(
		[]string{"positional", "--project-dir", "/tmp/app", "--json"},
		map[string]bool{"--project-dir": true, "--json": false},
	)
	want := "--project-dir /tmp/app --json positional"
	if strings.Join(got, " ") != want {
		t.Fatalf("reordered = %q, want %q", strings.Join(got, " "), want)
	}
}

func TestReorderFlagsEqualsForm(t *testing.T) {
	got := reorderFlags(
		[]string{"pos", "--project-dir=/tmp/app"},
		map[string]bool{"--project-dir": true},
	)
	if got[0] != "--project-dir=/tmp/app" || got[1] != "pos" {
		t.Fatalf("reordered = %v", got)
	}
}

func TestReorderFlagsDoubleDashStopsParsing(t *testing.T) {
	got := reorderFlags(
		[]string{"--json", "--", "--not-a-flag"},
		map[string]bool{"--json": false},
	)
	if len(got) != 2 || got[0] != "--json" || got[1] != "--not-a-flag" {
		t.Fatalf("reordered = %v", got)
	}
}
