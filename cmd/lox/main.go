package main

import (
	"fmt"
	"os"

	"lox/interpreter-go/pkg/driver"
)

const cliToolVersion = "lox 0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, remaining, err := parseGlobalFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return driver.ExitUsage
	}
	if len(remaining) == 0 {
		return runRepl(nil, opts)
	}

	switch remaining[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(remaining[1:], opts)
	case "check":
		return runCheck(remaining[1:], opts)
	case "tokens":
		return runTokens(remaining[1:], opts)
	case "repl":
		return runRepl(remaining[1:], opts)
	case "deps":
		return runDeps(remaining[1:], opts)
	default:
		return runEntry(remaining, opts)
	}
}
