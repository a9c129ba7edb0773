package parse

import (
	"regexp"
	"strings"
)

// Account is one Cloudflare account candidate recovered from `wrangler whoami`
// output. Name is optional; ID is always a 32-char lowercase hex string.
type Account struct {
	ID   string
	Name string
}

var (
	accountIDPattern   = regexp.MustCompile(`(?i)^[a-f0-9]{32}$`)
	inlineAccountLine  = regexp.MustCompile(`(?i)(.+?)\s*\(\s*id:\s*([a-f0-9]{32})\s*\)`)
	labeledAccountLine = regexp.MustCompile(`(?i)account id:\s*([a-f0-9]{32})\b`)
)

// ExtractAccounts recovers account candidates from whoami output in any of the
// formats wrangler has shipped: a JSON document (an `account` object and/or
// `accounts` lists, top-level or under `result`), box-drawing table rows,
// inline `Name (id: <hex>)`, or a bare `Account ID: <hex>` line. All
// strategies run and merge into one list deduplicated by id; order is first
// discovery and the first-seen name wins. Candidates whose id is not exactly
// 32 hex chars are silently skipped.
func ExtractAccounts(raw string) []Account {
	clean := StripANSI(raw)

	var order []string
	names := map[string]string{}
	add := func(id, name string) {
		id = strings.ToLower(strings.TrimSpace(id))
		if !accountIDPattern.MatchString(id) {
			return
		}
		name = cleanAccountName(name)
		if _, seen := names[id]; !seen {
			order = append(order, id)
			names[id] = name
			return
		}
		if names[id] == "" {
			names[id] = name
		}
	}

	if obj := JSONObject(clean); obj != nil {
		collectJSONAccounts(obj, add)
		if nested, ok := obj["result"].(map[string]any); ok {
			collectJSONAccounts(nested, add)
		}
	}

	for _, line := range strings.Split(clean, "\n") {
		if id, name, ok := tableRowAccount(line); ok {
			add(id, name)
		}
		if m := inlineAccountLine.FindStringSubmatch(line); m != nil {
			add(m[2], m[1])
		}
		if m := labeledAccountLine.FindStringSubmatch(line); m != nil {
			add(m[1], "")
		}
	}

	out := make([]Account, 0, len(order))
	for _, id := range order {
		out = append(out, Account{ID: id, Name: names[id]})
	}
	return out
}

func collectJSONAccounts(obj map[string]any, add func(id, name string)) {
	if single, ok := obj["account"].(map[string]any); ok {
		addJSONAccount(single, add)
	}
	if list, ok := obj["accounts"].([]any); ok {
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				addJSONAccount(m, add)
			}
		}
	}
}

func addJSONAccount(m map[string]any, add func(id, name string)) {
	id, _ := m["id"].(string)
	if id == "" {
		id, _ = m["account_id"].(string)
	}
	name, _ := m["name"].(string)
	add(id, name)
}

// tableRowAccount parses one `| Account Name | Account ID |` style row,
// tolerating both ASCII pipes and box-drawing bars. Header rows are skipped.
func tableRowAccount(line string) (id, name string, ok bool) {
	if !strings.ContainsAny(line, "|│┃") {
		return "", "", false
	}
	low := strings.ToLower(line)
	if strings.Contains(low, "account name") || strings.Contains(low, "account id") {
		return "", "", false
	}
	cells := strings.FieldsFunc(line, func(r rune) bool {
		return r == '|' || r == '│' || r == '┃'
	})
	nonEmpty := make([]string, 0, len(cells))
	for _, c := range cells {
		if c = strings.TrimSpace(c); c != "" {
			nonEmpty = append(nonEmpty, c)
		}
	}
	if len(nonEmpty) < 2 {
		return "", "", false
	}
	return nonEmpty[1], nonEmpty[0], true
}

func cleanAccountName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Trim(name, `"'`)
	return strings.TrimSpace(name)
}
