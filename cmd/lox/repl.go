package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"lox/interpreter-go/pkg/driver"
	"lox/interpreter-go/pkg/runtime"
)

const (
	promptMain    = "> "
	promptCont    = ". "
	historyFile   = "repl_history"
	replQuitInput = ":quit"
)

func runRepl(args []string, opts cliOptions) int {
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "lox repl does not take arguments (received %s)\n", strings.Join(args, " "))
		return driver.ExitUsage
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if home, err := driver.ResolveHome(); err == nil {
		histPath := filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if err := os.MkdirAll(home, 0o755); err != nil {
				return
			}
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	pipeline := &driver.Pipeline{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: opts.logger(),
		Strict: true,
	}
	return replLoop(context.Background(), ln, pipeline, os.Stdout)
}

// replLoop evaluates one complete input at a time until EOF or :quit.
// Errors are printed and the session continues.
func replLoop(ctx context.Context, ln *liner.State, pipeline *driver.Pipeline, out io.Writer) int {
	for {
		src, ok := readInput(ln)
		if !ok {
			fmt.Fprintln(out)
			return 0
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if trimmed == replQuitInput {
			return 0
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		res := pipeline.Eval(ctx, src)
		if res.Value != nil {
			fmt.Fprintln(out, runtime.Stringify(res.Value))
		}
	}
}

// readInput keeps prompting while the buffered source is incomplete. Ctrl-C
// discards the pending input.
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !driver.Incomplete(b.String()) {
			return b.String(), true
		}
	}
}
