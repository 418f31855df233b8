package main

import (
	"fmt"
	"os"

	"github.com/spectools/phasegate/internal/cli"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	cli.SetVersion(Version)
	if err := cli.Execute(); err != nil {
		code := cli.ExitCode(err)
		if code == 64 {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(code)
	}
}
