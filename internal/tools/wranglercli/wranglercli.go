// Package wranglercli drives the Cloudflare wrangler CLI through the tools
// runner.
package wranglercli

import (
	"context"
	"fmt"

	"github.com/edgekit-dev/edgekit/internal/tools"
)

const binary = "wrangler"

type Adapter struct {
	run tools.Runner
}

func New(run tools.Runner) *Adapter { return &Adapter{run: run} }

func (a *Adapter) Installed(ctx context.Context) error {
	if err := a.run.LookPath(binary); err != nil {
		return fmt.Errorf("wrangler not found: %w", err)
	}
	if _, err := a.run.Run(ctx, nil, binary, "--version"); err != nil {
		return fmt.Errorf("wrangler not runnable: %w", err)
	}
	return nil
}

// Whoami lists the authenticated identity. The output format varies by
// wrangler version (JSON, table, or prose); callers parse it with
// parse.ExtractAccounts. Output is populated even on failure.
func (a *Adapter) Whoami(ctx context.Context) (tools.Output, error) {
	return a.run.Run(ctx, nil, binary, "whoami")
}

// D1Create creates a D1 database under the chosen account. Wrangler reads the
// account from either of two environment variables depending on version, so
// both are set.
func (a *Adapter) D1Create(ctx context.Context, name, accountID string) (tools.Output, error) {
	env := map[string]string{
		"CLOUDFLARE_ACCOUNT_ID": accountID,
		"CF_ACCOUNT_ID":         accountID,
	}
	out, err := a.run.Run(ctx, env, binary, "d1", "create", name)
	if err != nil {
		return out, fmt.Errorf("create D1 database %q: %w", name, err)
	}
	return out, nil
}
