package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/edgekit-dev/edgekit/internal/prompt"
	"github.com/edgekit-dev/edgekit/internal/provision"
	"github.com/edgekit-dev/edgekit/internal/tools"
	"github.com/edgekit-dev/edgekit/internal/tools/stripecli"
	"github.com/edgekit-dev/edgekit/internal/tools/wranglercli"
)

func runSetup(ctx context.Context, args []string) int {
	args = reorderFlags(args, map[string]bool{
		"--project-dir":     true,
		"--wrangler-config": true,
		"--env-file":        true,
	})
	fs := flag.NewFlagSet("setup", flag.ContinueOnError)
	var projectDir, wranglerConfig, envFile string
	fs.StringVar(&projectDir, "project-dir", ".", "project directory")
	fs.StringVar(&wranglerConfig, "wrangler-config", "", "wrangler config path (default <project-dir>/wrangler.jsonc)")
	fs.StringVar(&envFile, "env-file", "", "env file path (default <project-dir>/.env)")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if len(fs.Args()) != 0 {
		fmt.Fprintln(os.Stderr, "usage: edgekit setup [--project-dir=.] [--wrangler-config=wrangler.jsonc] [--env-file=.env]")
		return 1
	}
	if wranglerConfig == "" {
		wranglerConfig = filepath.Join(projectDir, "wrangler.jsonc")
	}
	if envFile == "" {
		envFile = filepath.Join(projectDir, ".env")
	}
	if !isInteractiveTerminal() {
		fmt.Fprintln(os.Stderr, "warning: stdin is not a terminal; secret input will echo")
	}

	lock, err := provision.AcquireRunLock(projectDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup failed: %v\n", err)
		return 1
	}
	defer lock.Release()

	runner := tools.NewExecRunner()
	_, err = provision.Run(ctx, provision.Options{
		Prompt:             prompt.New(os.Stdin, os.Stdout),
		Stripe:             stripecli.New(runner),
		Wrangler:           wranglercli.New(runner),
		ProjectDir:         projectDir,
		WranglerConfigPath: wranglerConfig,
		EnvPath:            envFile,
		Out:                os.Stdout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup failed: %v\n", err)
		return 1
	}
	return 0
}
