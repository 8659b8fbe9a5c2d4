package main

import (
	"fmt"
	"os"

	"github.com/jacentio/pawtrail/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pawtrail: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
