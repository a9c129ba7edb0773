// Package stripecli drives the Stripe CLI through the tools runner.
package stripecli

import (
	"context"
	"fmt"

	"github.com/edgekit-dev/edgekit/internal/tools"
)

const binary = "stripe"

type Adapter struct {
	run tools.Runner
}

func New(run tools.Runner) *Adapter { return &Adapter{run: run} }

// Installed probes the binary with a version call.
func (a *Adapter) Installed(ctx context.Context) error {
	if err := a.run.LookPath(binary); err != nil {
		return fmt.Errorf("stripe CLI not found: %w", err)
	}
	if _, err := a.run.Run(ctx, nil, binary, "--version"); err != nil {
		return fmt.Errorf("stripe CLI not runnable: %w", err)
	}
	return nil
}

// Authenticated probes login state via `stripe config --list`.
func (a *Adapter) Authenticated(ctx context.Context) error {
	if _, err := a.run.Run(ctx, nil, binary, "config", "--list"); err != nil {
		return fmt.Errorf("stripe CLI not authenticated: %w", err)
	}
	return nil
}

// ListenPrintSecret starts `stripe listen --print-secret`, which registers a
// webhook endpoint and prints its signing secret. Output is returned raw for
// the caller to scan; it is populated even when the command failed.
func (a *Adapter) ListenPrintSecret(ctx context.Context) (tools.Output, error) {
	return a.run.Run(ctx, nil, binary, "listen", "--print-secret")
}
