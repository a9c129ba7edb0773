package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/edgekit-dev/edgekit/internal/parse"
	"github.com/edgekit-dev/edgekit/internal/project"
	"github.com/edgekit-dev/edgekit/internal/tools"
	"github.com/edgekit-dev/edgekit/internal/tools/stripecli"
	"github.com/edgekit-dev/edgekit/internal/tools/wranglercli"
)

type doctorCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

type doctorReport struct {
	Checks []doctorCheck `json:"checks"`
}

const (
	doctorStatusPass = "pass"
	doctorStatusWarn = "warn"
	doctorStatusFail = "fail"
)

func runDoctor(ctx context.Context, args []string) int {
	args = reorderFlags(args, map[string]bool{
		"--project-dir": true,
		"--json":        false,
	})
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	var projectDir string
	var asJSON bool
	fs.StringVar(&projectDir, "project-dir", ".", "project directory")
	fs.BoolVar(&asJSON, "json", false, "json output")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if len(fs.Args()) != 0 {
		fmt.Fprintln(os.Stderr, "usage: edgekit doctor [--project-dir=.] [--json]")
		return 1
	}

	report, err := collectDoctorReport(ctx, projectDir)
	if asJSON {
		b, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(b))
	} else {
		printDoctorReport(report)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "doctor failed: %v\n", err)
		return 1
	}
	return 0
}

func collectDoctorReport(ctx context.Context, projectDir string) (doctorReport, error) {
	report := doctorReport{Checks: make([]doctorCheck, 0, 8)}
	add := func(name, status, detail string) {
		report.Checks = append(report.Checks, doctorCheck{Name: name, Status: status, Detail: detail})
	}

	runner := tools.NewExecRunner()
	stripe := stripecli.New(runner)
	wrangler := wranglercli.New(runner)

	if err := stripe.Installed(ctx); err != nil {
		add("stripe_cli", doctorStatusFail, err.Error())
	} else {
		add("stripe_cli", doctorStatusPass, "installed")
		if err := stripe.Authenticated(ctx); err != nil {
			add("stripe_auth", doctorStatusWarn, "not logged in (run `stripe login`)")
		} else {
			add("stripe_auth", doctorStatusPass, "logged in")
		}
	}

	if err := wrangler.Installed(ctx); err != nil {
		add("wrangler", doctorStatusFail, err.Error())
	} else {
		add("wrangler", doctorStatusPass, "installed")
		out, err := wrangler.Whoami(ctx)
		accounts := parse.ExtractAccounts(parse.StripANSI(out.Combined()))
		switch {
		case err != nil:
			add("wrangler_auth", doctorStatusWarn, "not logged in (run `wrangler login`)")
		case len(accounts) == 0:
			add("wrangler_auth", doctorStatusWarn, "logged in but no accounts visible")
		default:
			add("wrangler_auth", doctorStatusPass, fmt.Sprintf("%d account(s) visible", len(accounts)))
		}
	}

	configPath := filepath.Join(projectDir, "wrangler.jsonc")
	if raw, err := os.ReadFile(configPath); err != nil {
		add("wrangler_config", doctorStatusFail, fmt.Sprintf("not readable: %v", err))
	} else if strings.Contains(string(raw), "YOUR_DB_ID") {
		add("wrangler_config", doctorStatusWarn, "still has template placeholders (run `edgekit setup`)")
	} else {
		add("wrangler_config", doctorStatusPass, configPath)
	}

	envPath := filepath.Join(projectDir, ".env")
	if _, err := os.Stat(envPath); err != nil {
		add("env_file", doctorStatusWarn, ".env not found (run `edgekit setup`)")
	} else {
		add("env_file", doctorStatusPass, envPath)
	}

	if cfg, err := project.Load(projectDir); err != nil {
		add("manifest", doctorStatusWarn, fmt.Sprintf("%s not found (run `edgekit setup`)", project.ConfigFilename))
	} else {
		add("manifest", doctorStatusPass, fmt.Sprintf("account %s, database %s", cfg.AccountID, cfg.Database.Name))
	}

	failed := make([]string, 0, 4)
	for _, c := range report.Checks {
		if c.Status == doctorStatusFail {
			failed = append(failed, c.Name)
		}
	}
	if len(failed) > 0 {
		sort.Strings(failed)
		return report, fmt.Errorf("failing checks: %s", strings.Join(failed, ", "))
	}
	return report, nil
}

func printDoctorReport(report doctorReport) {
	fmt.Println("doctor:")
	for _, c := range report.Checks {
		prefix := "OK"
		switch c.Status {
		case doctorStatusWarn:
			prefix = "WARN"
		case doctorStatusFail:
			prefix = "FAIL"
		}
		fmt.Printf("  [%s] %s: %s\n", prefix, c.Name, c.Detail)
	}
}
