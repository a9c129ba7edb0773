package parse

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// DatabaseResult identifies a D1 database recovered from `wrangler d1 create`
// output. Both fields are non-empty.
type DatabaseResult struct {
	ID   string
	Name string
}

var (
	quotedDatabaseID   = regexp.MustCompile(`"database_id"\s*[:=]\s*"([0-9a-fA-F-]{36})"`)
	quotedDatabaseName = regexp.MustCompile(`"database_name"\s*[:=]\s*"([^"]+)"`)
	bareUUID           = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)
	namedDatabase      = regexp.MustCompile(`(?i)(?:DB|database)\s+"([^"]+)"`)
)

var d1IDKeys = []string{"uuid", "database_id", "id"}
var d1NameKeys = []string{"name", "database_name"}

// ParseD1CreateResult recovers the created database's id and name from create
// output. Tiers, first success wins: a JSON body (optionally nested under
// `result`) with known id/name key aliases; a quoted "database_id" field with
// optional paired "database_name"; a bare UUID anywhere in the text with an
// optional `DB "x"` / `database "x"` phrase. Name falls back to fallbackName
// when the output carries none. Returns nil when nothing matched; callers must
// treat that as "enter it manually", never as a hard failure.
func ParseD1CreateResult(raw, fallbackName string) *DatabaseResult {
	clean := StripANSI(raw)

	if obj := JSONObject(clean); obj != nil {
		candidates := []map[string]any{obj}
		if nested, ok := obj["result"].(map[string]any); ok {
			candidates = append(candidates, nested)
		}
		for _, m := range candidates {
			if res := d1FromJSON(m, fallbackName); res != nil {
				return res
			}
		}
	}

	if m := quotedDatabaseID.FindStringSubmatch(clean); m != nil {
		name := fallbackName
		if n := quotedDatabaseName.FindStringSubmatch(clean); n != nil {
			name = n[1]
		}
		return &DatabaseResult{ID: strings.ToLower(m[1]), Name: name}
	}

	if id := bareUUID.FindString(clean); id != "" {
		name := fallbackName
		if n := namedDatabase.FindStringSubmatch(clean); n != nil {
			name = n[1]
		}
		return &DatabaseResult{ID: strings.ToLower(id), Name: name}
	}

	return nil
}

func d1FromJSON(m map[string]any, fallbackName string) *DatabaseResult {
	id := ""
	for _, key := range d1IDKeys {
		if v, ok := m[key].(string); ok && v != "" {
			if _, err := uuid.Parse(v); err == nil {
				id = strings.ToLower(v)
				break
			}
		}
	}
	if id == "" {
		return nil
	}
	name := fallbackName
	for _, key := range d1NameKeys {
		if v, ok := m[key].(string); ok && strings.TrimSpace(v) != "" {
			name = v
			break
		}
	}
	return &DatabaseResult{ID: id, Name: name}
}
