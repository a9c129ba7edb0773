package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/edgekit-dev/edgekit/internal/schema"
	"github.com/edgekit-dev/edgekit/internal/store/sqlite"
)

func runBootstrap(ctx context.Context, args []string) int {
	args = reorderFlags(args, map[string]bool{
		"--project-dir": true,
		"--local":       true,
	})
	fs := flag.NewFlagSet("bootstrap", flag.ContinueOnError)
	var projectDir, localPath string
	fs.StringVar(&projectDir, "project-dir", ".", "project directory")
	fs.StringVar(&localPath, "local", "", "sqlite file to bootstrap (default: auto-detect wrangler local D1 state)")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if len(fs.Args()) != 0 {
		fmt.Fprintln(os.Stderr, "usage: edgekit bootstrap [--project-dir=.] [--local=path/to.sqlite]")
		return 1
	}

	if localPath == "" {
		found, err := sqlite.FindWranglerLocal(projectDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bootstrap failed: %v\n", err)
			return 1
		}
		localPath = found
	}

	db, err := sqlite.Open(localPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap failed: %v\n", err)
		return 1
	}
	defer db.Close()

	if err := schema.Ensure(ctx, db); err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap failed: %v\n", err)
		return 1
	}
	fmt.Printf("schema applied to %s\n", localPath)
	return 0
}
