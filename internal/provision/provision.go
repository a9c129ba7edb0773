// Package provision runs the interactive setup workflow: it verifies the
// Stripe and wrangler CLIs, resolves the Cloudflare account and D1 database,
// collects secrets, and writes the wrangler config, .env, and project
// manifest.
package provision

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/edgekit-dev/edgekit/internal/parse"
	"github.com/edgekit-dev/edgekit/internal/project"
	"github.com/edgekit-dev/edgekit/internal/prompt"
	"github.com/edgekit-dev/edgekit/internal/tools"
)

// StripeCLI is the Stripe command-line surface the workflow drives.
type StripeCLI interface {
	Installed(ctx context.Context) error
	Authenticated(ctx context.Context) error
	ListenPrintSecret(ctx context.Context) (tools.Output, error)
}

// WranglerCLI is the wrangler command-line surface the workflow drives.
type WranglerCLI interface {
	Installed(ctx context.Context) error
	Whoami(ctx context.Context) (tools.Output, error)
	D1Create(ctx context.Context, name, accountID string) (tools.Output, error)
}

// Result holds everything the workflow collected. Secrets land in .env only;
// the rest is also persisted to the project manifest.
type Result struct {
	AccountID   string
	AccountName string

	DatabaseID   string
	DatabaseName string
	Binding      string

	APIToken            string
	StripeSecretKey     string
	StripeWebhookSecret string
	AuthSecret          string
}

type Options struct {
	Prompt   *prompt.Prompter
	Stripe   StripeCLI
	Wrangler WranglerCLI

	// ProjectDir is where the manifest is written and where the database
	// name suggestion comes from.
	ProjectDir         string
	WranglerConfigPath string
	EnvPath            string

	Out io.Writer
}

var (
	accountIDRe     = regexp.MustCompile(`(?i)^[a-f0-9]{32}$`)
	webhookSecretRe = regexp.MustCompile(`whsec_[a-zA-Z0-9]+`)
)

// Run executes the workflow start to finish. Tool-missing and
// authentication failures are fatal; config-file patching is advisory and
// only warns.
func Run(ctx context.Context, opts Options) (*Result, error) {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	res := &Result{}

	if err := checkStripe(ctx, opts, out); err != nil {
		return nil, err
	}
	if err := opts.Wrangler.Installed(ctx); err != nil {
		return nil, err
	}
	if err := resolveAccount(ctx, opts, out, res); err != nil {
		return nil, err
	}
	if err := resolveDatabase(ctx, opts, out, res); err != nil {
		return nil, err
	}

	key, err := opts.Prompt.Secret("Stripe secret key (sk_...)")
	if err != nil {
		return nil, fmt.Errorf("read Stripe secret key: %w", err)
	}
	if key == "" {
		fmt.Fprintln(out, "warning: no Stripe secret key; seeding will skip billing products")
	}
	res.StripeSecretKey = key

	if err := resolveWebhookSecret(ctx, opts, out, res); err != nil {
		return nil, err
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate auth secret: %w", err)
	}
	res.AuthSecret = hex.EncodeToString(secret)

	n, err := PatchWranglerConfig(opts.WranglerConfigPath, res.Binding, res.DatabaseName, res.DatabaseID)
	switch {
	case err != nil:
		fmt.Fprintf(out, "warning: could not patch wrangler config: %v\n", err)
	case n == 0:
		fmt.Fprintln(out, "wrangler config already configured; leaving it untouched")
	default:
		fmt.Fprintf(out, "patched %s (%d values)\n", opts.WranglerConfigPath, n)
	}

	if err := WriteEnvFile(opts.EnvPath, EnvVars(res)); err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "wrote %s\n", opts.EnvPath)

	if err := project.Write(opts.ProjectDir, project.Config{
		AccountID:   res.AccountID,
		AccountName: res.AccountName,
		Database: project.DatabaseConfig{
			ID:      res.DatabaseID,
			Name:    res.DatabaseName,
			Binding: res.Binding,
		},
	}); err != nil {
		return nil, err
	}

	fmt.Fprintln(out, "setup complete")
	return res, nil
}

func checkStripe(ctx context.Context, opts Options, out io.Writer) error {
	if err := opts.Stripe.Installed(ctx); err != nil {
		return err
	}
	if err := opts.Stripe.Authenticated(ctx); err == nil {
		return nil
	}
	opts.Prompt.Say("The Stripe CLI is not logged in. Run `stripe login` in another terminal.")
	ok, err := opts.Prompt.YesNo("Completed stripe login?", true)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("stripe CLI login is required")
	}
	if err := opts.Stripe.Authenticated(ctx); err != nil {
		return fmt.Errorf("stripe CLI still not authenticated: %w", err)
	}
	return nil
}

// resolveAccount scans `wrangler whoami` for account identifiers, asking the
// operator to pick when several are visible. Parsing the output is best
// effort across wrangler versions; if two attempts surface nothing, the
// operator types the account id by hand.
func resolveAccount(ctx context.Context, opts Options, out io.Writer, res *Result) error {
	var accounts []parse.Account
	for attempt := 0; attempt < 2 && len(accounts) == 0; attempt++ {
		if attempt > 0 {
			opts.Prompt.Say("Wrangler is not logged in or printed no accounts. Run `wrangler login` in another terminal.")
			ok, err := opts.Prompt.YesNo("Completed wrangler login?", true)
			if err != nil {
				return err
			}
			if !ok {
				break
			}
		}
		// The output is scanned whether or not whoami exited cleanly: a
		// failing run often prints the account alongside its diagnostics.
		output, _ := opts.Wrangler.Whoami(ctx)
		accounts = parse.ExtractAccounts(parse.StripANSI(output.Combined()))
	}

	if len(accounts) == 0 {
		fmt.Fprintln(out, "Could not detect your Cloudflare account automatically.")
		id, err := opts.Prompt.Pattern("Cloudflare account ID", accountIDRe,
			"account IDs are 32 hexadecimal characters")
		if err != nil {
			return err
		}
		name, err := opts.Prompt.Line("Account label (optional)", "")
		if err != nil {
			return err
		}
		res.AccountID = strings.ToLower(id)
		res.AccountName = name
		return nil
	}

	if len(accounts) == 1 {
		res.AccountID = accounts[0].ID
		res.AccountName = accounts[0].Name
		fmt.Fprintf(out, "using account %s (%s)\n", displayName(accounts[0]), accounts[0].ID)
		return nil
	}

	fmt.Fprintln(out, "Multiple Cloudflare accounts found:")
	for i, a := range accounts {
		fmt.Fprintf(out, "  %d. %s (%s)\n", i+1, displayName(a), a.ID)
	}
	for {
		raw, err := opts.Prompt.Line("Select account (number or account ID)", "1")
		if err != nil {
			return err
		}
		if idx, err := strconv.Atoi(raw); err == nil {
			if idx >= 1 && idx <= len(accounts) {
				res.AccountID = accounts[idx-1].ID
				res.AccountName = accounts[idx-1].Name
				return nil
			}
			fmt.Fprintf(out, "enter a number between 1 and %d\n", len(accounts))
			continue
		}
		if accountIDRe.MatchString(raw) {
			res.AccountID = strings.ToLower(raw)
			for _, a := range accounts {
				if a.ID == res.AccountID {
					res.AccountName = a.Name
				}
			}
			return nil
		}
		fmt.Fprintln(out, "enter a list number or a 32-character account ID")
	}
}

func displayName(a parse.Account) string {
	if a.Name != "" {
		return a.Name
	}
	return "(unnamed)"
}

// resolveDatabase either records an existing D1 database or creates a new one
// through wrangler. Creation output parsing is best effort; when the id
// cannot be recovered the raw tool output is shown and the operator enters it
// manually.
func resolveDatabase(ctx context.Context, opts Options, out io.Writer, res *Result) error {
	existing, err := opts.Prompt.YesNo("Use an existing D1 database?", false)
	if err != nil {
		return err
	}

	if existing {
		id, err := promptUUID(opts.Prompt, out, "D1 database ID")
		if err != nil {
			return err
		}
		name, err := opts.Prompt.Required("D1 database name")
		if err != nil {
			return err
		}
		res.DatabaseID = id
		res.DatabaseName = name
	} else {
		suggested := filepath.Base(opts.ProjectDir) + "-db"
		name, err := opts.Prompt.Line("New D1 database name", suggested)
		if err != nil {
			return err
		}
		output, runErr := opts.Wrangler.D1Create(ctx, name, res.AccountID)
		db := parse.ParseD1CreateResult(parse.StripANSI(output.Combined()), name)
		if runErr != nil || db == nil {
			if runErr != nil {
				fmt.Fprintf(out, "database creation failed: %v\n", runErr)
			} else {
				fmt.Fprintln(out, "could not find the database ID in wrangler's output:")
			}
			if combined := strings.TrimSpace(output.Combined()); combined != "" {
				fmt.Fprintln(out, combined)
			}
			fmt.Fprintln(out, "If the database exists (check the Cloudflare dashboard), enter its ID.")
			id, err := promptUUID(opts.Prompt, out, "D1 database ID")
			if err != nil {
				return err
			}
			manualName, err := opts.Prompt.Line("D1 database name", name)
			if err != nil {
				return err
			}
			db = &parse.DatabaseResult{ID: id, Name: manualName}
		}
		res.DatabaseID = db.ID
		res.DatabaseName = db.Name
		fmt.Fprintf(out, "using database %s (%s)\n", res.DatabaseName, res.DatabaseID)
	}

	binding, err := opts.Prompt.Line("Worker binding name", "DB")
	if err != nil {
		return err
	}
	res.Binding = binding

	token, err := opts.Prompt.Secret("Cloudflare API token (optional, enables remote seeding)")
	if err != nil {
		return fmt.Errorf("read API token: %w", err)
	}
	if token == "" {
		fmt.Fprintln(out, "warning: no API token; `edgekit seed` against the remote database will not work")
	}
	res.APIToken = token
	return nil
}

func promptUUID(p *prompt.Prompter, out io.Writer, label string) (string, error) {
	for {
		value, err := p.Line(label, "")
		if err != nil {
			return "", err
		}
		if id, err := uuid.Parse(value); err == nil {
			return id.String(), nil
		}
		fmt.Fprintln(out, "database IDs are UUIDs, e.g. 3e0d4b7c-0549-4fbc-b6c9-1b5e4f7a9b2d")
	}
}

// resolveWebhookSecret runs `stripe listen --print-secret` and scans the
// output for the signing secret. A run failure is surfaced as-is; a clean run
// with no secret in the output is its own error.
func resolveWebhookSecret(ctx context.Context, opts Options, out io.Writer, res *Result) error {
	output, runErr := opts.Stripe.ListenPrintSecret(ctx)
	match := webhookSecretRe.FindString(parse.StripANSI(output.Combined()))
	if match != "" {
		res.StripeWebhookSecret = match
		fmt.Fprintln(out, "captured Stripe webhook secret")
		return nil
	}
	if runErr != nil {
		return fmt.Errorf("obtain webhook secret: %w", runErr)
	}
	return fmt.Errorf("stripe listen produced no webhook secret")
}
