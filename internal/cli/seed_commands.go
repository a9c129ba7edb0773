package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/edgekit-dev/edgekit/internal/d1"
	"github.com/edgekit-dev/edgekit/internal/project"
	"github.com/edgekit-dev/edgekit/internal/seed"
)

func runSeed(ctx context.Context, args []string) int {
	args = reorderFlags(args, map[string]bool{
		"--project-dir": true,
		"--env-file":    true,
	})
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	var projectDir, envFile string
	fs.StringVar(&projectDir, "project-dir", ".", "project directory")
	fs.StringVar(&envFile, "env-file", "", "env file path (default <project-dir>/.env)")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if len(fs.Args()) != 0 {
		fmt.Fprintln(os.Stderr, "usage: edgekit seed [--project-dir=.] [--env-file=.env]")
		return 1
	}
	if envFile == "" {
		envFile = filepath.Join(projectDir, ".env")
	}

	env := loadEnv(envFile)

	accountID := env("CLOUDFLARE_ACCOUNT_ID")
	databaseID := env("CLOUDFLARE_DATABASE_ID")
	if accountID == "" || databaseID == "" {
		// fall back to the setup manifest for non-secret identifiers
		if cfg, err := project.Load(projectDir); err == nil {
			if accountID == "" {
				accountID = cfg.AccountID
			}
			if databaseID == "" {
				databaseID = cfg.Database.ID
			}
		}
	}
	token := env("CLOUDFLARE_API_TOKEN")

	var missing []string
	for _, kv := range []struct{ k, v string }{
		{"CLOUDFLARE_ACCOUNT_ID", accountID},
		{"CLOUDFLARE_DATABASE_ID", databaseID},
		{"CLOUDFLARE_API_TOKEN", token},
	} {
		if kv.v == "" {
			missing = append(missing, kv.k)
		}
	}
	if len(missing) > 0 {
		fmt.Fprintf(os.Stderr, "seed failed: missing %s (run `edgekit setup` first)\n", strings.Join(missing, ", "))
		return 1
	}

	opts := seed.Options{
		Store: d1.New(accountID, databaseID, token),
		Out:   os.Stdout,
	}
	if key := env("STRIPE_SECRET_KEY"); key != "" {
		opts.Billing = seed.NewStripeBilling(key)
	} else {
		fmt.Fprintln(os.Stderr, "warning: STRIPE_SECRET_KEY not set; skipping billing products")
	}

	if err := seed.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		return 1
	}
	return 0
}

// loadEnv returns a lookup over the process environment with the env file as
// fallback. Variables already exported win, matching how the app itself reads
// configuration.
func loadEnv(path string) func(string) string {
	fileVars, err := godotenv.Read(path)
	if err != nil {
		fileVars = nil
	}
	return func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fileVars[key]
	}
}
