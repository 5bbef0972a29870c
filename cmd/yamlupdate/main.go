// Package main is the entry point for the yamlupdate command.
package main

import (
	"io"
	"os"
	"runtime/debug"

	"github.com/fatih/color"
	"github.com/kevinwang15/yamlupdate/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	exitCode := runSafely(os.Args[1:], runWithArgs, os.Stderr)

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

func runSafely(args []string, runner func([]string) int, errWriter io.Writer) (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			color.New(color.FgRed).Fprintf(errWriter, "✗ panic recovered: %v\n%s", r, debug.Stack())
			exitCode = 1
		}
	}()

	return runner(args)
}

func runWithArgs(args []string) int {
	rootCmd := cli.NewRootCmd(version)
	rootCmd.SetArgs(args)

	if err := cli.Execute(rootCmd); err != nil {
		color.New(color.FgRed).Fprintf(rootCmd.ErrOrStderr(), "✗ %v\n", err)
		return 1
	}
	return 0
}
