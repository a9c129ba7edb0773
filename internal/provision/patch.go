package provision

import (
	"fmt"
	"os"
	"strings"
)

// The starter template ships wrangler.jsonc with these literal placeholders.
const (
	placeholderBinding = `"binding": "BINDING_NAME"`
	placeholderDBName  = `"database_name": "YOUR_DB_NAME"`
	placeholderDBID    = `"database_id": "YOUR_DB_ID"`
)

// PatchWranglerConfig replaces the template placeholders in the wrangler
// config with the provisioned values and reports how many were substituted.
// Zero replacements means the file was already configured (or hand-edited);
// that is not an error.
func PatchWranglerConfig(path, binding, dbName, dbID string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read wrangler config: %w", err)
	}
	text := string(raw)

	replaced := 0
	for _, sub := range []struct{ old, new string }{
		{placeholderBinding, fmt.Sprintf(`"binding": %q`, binding)},
		{placeholderDBName, fmt.Sprintf(`"database_name": %q`, dbName)},
		{placeholderDBID, fmt.Sprintf(`"database_id": %q`, dbID)},
	} {
		if strings.Contains(text, sub.old) {
			text = strings.ReplaceAll(text, sub.old, sub.new)
			replaced++
		}
	}
	if replaced == 0 {
		return 0, nil
	}

	info, err := os.Stat(path)
	mode := os.FileMode(0o644)
	if err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(text), mode); err != nil {
		return replaced, fmt.Errorf("write wrangler config: %w", err)
	}
	return replaced, nil
}
