package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
)

func Execute(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}
	ctx := context.Background()
	cmd := args[0]
	switch cmd {
	case "setup":
		return runSetup(ctx, args[1:])
	case "seed":
		return runSeed(ctx, args[1:])
	case "bootstrap":
		return runBootstrap(ctx, args[1:])
	case "doctor":
		return runDoctor(ctx, args[1:])
	case "help", "-h", "--help":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		return 1
	}
}

func reorderFlags(args []string, valueFlags map[string]bool) []string {
	flags := make([]string, 0, len(args))
	positionals := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if strings.HasPrefix(a, "-") {
			flags = append(flags, a)
			if takesValue(a, valueFlags) && !strings.Contains(a, "=") && i+1 < len(args) {
				flags = append(flags, args[i+1])
				i++
			}
			continue
		}
		positionals = append(positionals, a)
	}
	return append(flags, positionals...)
}

func takesValue(flagToken string, valueFlags map[string]bool) bool {
	if valueFlags[flagToken] {
		return true
	}
	if eq := strings.Index(flagToken, "="); eq > 0 {
		return valueFlags[flagToken[:eq]]
	}
	return false
}

func isInteractiveTerminal() bool {
	st, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (st.Mode() & os.ModeCharDevice) != 0
}

func printUsage() {
	fmt.Print(`edgekit - provisioning and data tooling for the SaaS starter

commands:
  setup     [--project-dir=.] [--wrangler-config=wrangler.jsonc] [--env-file=.env]
            interactive: provisions Stripe + Cloudflare D1 and writes config
  seed      [--project-dir=.] [--env-file=.env]
            applies the schema remotely and inserts the default user, team,
            and billing products
  bootstrap [--project-dir=.] [--local=path/to.sqlite]
            applies the schema to the local wrangler D1 database
  doctor    [--project-dir=.] [--json]
            reports tool, auth, and config state
  help
`)
}
