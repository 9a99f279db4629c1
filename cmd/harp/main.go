package main

import (
	"fmt"
	"os"

	"github.com/harpproto/harp/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands print their own domain errors; make sure command-level
		// failures (bad flags, unreadable files) still surface.
		code := cli.GetExitCode(err)
		if code == cli.ExitCommandError {
			fmt.Fprintf(os.Stderr, "harp: %v\n", err)
		}
		os.Exit(code)
	}
}
