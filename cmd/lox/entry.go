package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"lox/interpreter-go/pkg/driver"
)

type executionMode int

const (
	modeRun executionMode = iota
	modeCheck
)

func modeCommandLabel(mode executionMode) string {
	switch mode {
	case modeCheck:
		return "lox check"
	default:
		return "lox run"
	}
}

func runEntry(args []string, opts cliOptions) int {
	return runEntryWithMode(args, modeRun, opts)
}

func runCheck(args []string, opts cliOptions) int {
	return runEntryWithMode(args, modeCheck, opts)
}

func runEntryWithMode(args []string, mode executionMode, opts cliOptions) int {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		printUsage()
		return driver.ExitUsage
	}

	program, code := loadProgram(args, mode)
	if program == nil {
		return code
	}

	pipeline := &driver.Pipeline{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: opts.logger(),
		Strict: program.Strict,
	}
	if mode == modeCheck {
		return checkProgram(pipeline, program)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return pipeline.RunProgram(ctx, program).ExitCode()
}

// loadProgram resolves args to a manifest target or a script path. A nil
// program comes with the exit code to return.
func loadProgram(args []string, mode executionMode) (*driver.Program, int) {
	manifest, err := loadManifestFrom(".")
	if err != nil && !errors.Is(err, driver.ErrManifestNotFound) {
		if len(args) == 0 || !looksLikeScript(args[0]) {
			fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
			return nil, 1
		}
		fmt.Fprintf(os.Stderr, "warning: unable to load manifest (%v); running the script directly\n", err)
		manifest = nil
	}

	if len(args) == 0 {
		if manifest == nil {
			fmt.Fprintf(os.Stderr, "%s requires a manifest target or script (%s not found)\n", modeCommandLabel(mode), driver.ManifestName)
			printUsage()
			return nil, driver.ExitUsage
		}
		return loadTarget(manifest, "")
	}

	if manifest != nil && !looksLikeScript(args[0]) {
		if _, ok := manifest.FindTarget(args[0]); ok {
			return loadTarget(manifest, args[0])
		}
	}

	program, err := driver.NewLoader("", nil).LoadFile(args[0])
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "script %s does not exist\n", args[0])
		} else {
			fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", args[0], err)
		}
		return nil, 1
	}
	return program, 0
}

func loadTarget(manifest *driver.Manifest, name string) (*driver.Program, int) {
	lock, err := loadLockfileForManifest(manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return nil, 1
	}
	home, err := driver.ResolveHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve LOX_HOME: %v\n", err)
		return nil, 1
	}
	program, err := driver.NewLoader(home, lock).LoadTarget(manifest, name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load target: %v\n", err)
		return nil, 1
	}
	return program, 0
}

func checkProgram(pipeline *driver.Pipeline, program *driver.Program) int {
	sources := append(append([]driver.Source{}, program.Preludes...), program.Main)
	for _, source := range sources {
		if code := pipeline.Check(source.Path, source.Text).ExitCode(); code != driver.ExitOK {
			return code
		}
	}
	fmt.Fprintf(os.Stdout, "%s: ok\n", program.Main.Path)
	return driver.ExitOK
}

func runTokens(args []string, opts cliOptions) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "lox tokens requires exactly one script")
		printUsage()
		return driver.ExitUsage
	}
	program, err := driver.NewLoader("", nil).LoadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", args[0], err)
		return 1
	}
	pipeline := &driver.Pipeline{Stdout: os.Stdout, Stderr: os.Stderr, Logger: opts.logger(), Strict: true}
	tokens, errs := pipeline.Tokens(program.Main.Text)
	for _, tok := range tokens {
		fmt.Fprintf(os.Stdout, "%d\t%s\n", tok.Line, tok)
	}
	if errs > 0 {
		return driver.ExitStaticError
	}
	return driver.ExitOK
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	path, err := driver.FindManifest(start)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(path)
}

// loadLockfileForManifest returns nil when the manifest needs no lockfile
// or none has been written yet; the loader reports missing preludes.
func loadLockfileForManifest(manifest *driver.Manifest) (*driver.Lockfile, error) {
	if manifest == nil || !manifest.HasGitPreludes() {
		return nil, nil
	}
	lock, err := driver.LoadLockfile(manifest.LockPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read lockfile: %w", err)
	}
	if lock.Root != manifest.Name {
		return nil, fmt.Errorf("lockfile root %q does not match manifest name %q", lock.Root, manifest.Name)
	}
	return lock, nil
}

func looksLikeScript(arg string) bool {
	return strings.HasSuffix(arg, ".lox") || strings.ContainsRune(arg, os.PathSeparator)
}
