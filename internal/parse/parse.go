// Package parse recovers structured values from vendor CLI output.
//
// The stripe and wrangler CLIs print for humans, not machines: output varies
// by version, may be rendered as JSON, box-drawing tables, or prose, and is
// usually colored. Every extractor here works on an ANSI-stripped copy of the
// text and degrades to nil/empty instead of failing.
package parse

import (
	"encoding/json"
	"regexp"
	"strings"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\a]*(\a|\x1b\\)|\x1b[@-_]`)

// StripANSI removes terminal escape sequences. Total: any input yields a
// printable string.
func StripANSI(text string) string {
	return ansiPattern.ReplaceAllString(text, "")
}

// JSONObject locates the outermost {...} slice in noisy text and unmarshals
// it. Returns nil when no brace pair exists, the braces are misordered, or the
// slice is not valid JSON. Never panics; callers must nil-check.
func JSONObject(text string) map[string]any {
	clean := StripANSI(text)
	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start < 0 || end < start {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(clean[start:end+1]), &out); err != nil {
		return nil
	}
	return out
}
