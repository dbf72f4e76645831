package main

import (
	"fmt"
	"os"
)

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  lox [--verbose] [--log-level=LEVEL]")
	fmt.Fprintln(os.Stderr, "  lox [flags] run [target]")
	fmt.Fprintln(os.Stderr, "  lox [flags] run <script.lox>")
	fmt.Fprintln(os.Stderr, "  lox [flags] <script.lox>")
	fmt.Fprintln(os.Stderr, "  lox [flags] check [target | script.lox]")
	fmt.Fprintln(os.Stderr, "  lox [flags] tokens <script.lox>")
	fmt.Fprintln(os.Stderr, "  lox [flags] repl")
	fmt.Fprintln(os.Stderr, "  lox deps install")
	fmt.Fprintln(os.Stderr, "  lox version")
}
