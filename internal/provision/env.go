package provision

import (
	"fmt"
	"os"
	"strings"
)

// EnvVar is one KEY=VALUE line. Order matters: the env file is written in the
// exact sequence EnvVars produces so diffs between runs stay readable.
type EnvVar struct {
	Key   string
	Value string
}

// EnvVars lays out the environment for a provisioned project. Every key is
// always present, even when its value is empty.
func EnvVars(res *Result) []EnvVar {
	return []EnvVar{
		{"CLOUDFLARE_ACCOUNT_ID", res.AccountID},
		{"CLOUDFLARE_DATABASE_ID", res.DatabaseID},
		{"CLOUDFLARE_D1_NAME", res.DatabaseName},
		{"CLOUDFLARE_D1_BINDING", res.Binding},
		{"CLOUDFLARE_API_TOKEN", res.APIToken},
		{"STRIPE_SECRET_KEY", res.StripeSecretKey},
		{"STRIPE_WEBHOOK_SECRET", res.StripeWebhookSecret},
		{"BASE_URL", "http://localhost:3000"},
		{"AUTH_SECRET", res.AuthSecret},
	}
}

// WriteEnvFile writes the variables as KEY=VALUE lines with a trailing
// newline. The file holds secrets, so it is not world-readable.
func WriteEnvFile(path string, vars []EnvVar) error {
	var b strings.Builder
	for _, v := range vars {
		fmt.Fprintf(&b, "%s=%s\n", v.Key, v.Value)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("write env file: %w", err)
	}
	return nil
}
