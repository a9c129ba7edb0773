package main

import (
	"os"

	"github.com/edgekit-dev/edgekit/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
