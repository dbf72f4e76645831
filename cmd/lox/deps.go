package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"lox/interpreter-go/pkg/driver"
)

func runDeps(args []string, _ cliOptions) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "lox deps requires a subcommand (install)")
		return driver.ExitUsage
	}
	switch args[0] {
	case "install":
		if len(args) > 1 {
			fmt.Fprintf(os.Stderr, "lox deps install does not take arguments (received %s)\n", strings.Join(args[1:], " "))
			return driver.ExitUsage
		}
		return runDepsInstall()
	default:
		fmt.Fprintf(os.Stderr, "unknown deps subcommand %q\n", args[0])
		return driver.ExitUsage
	}
}

func runDepsInstall() int {
	manifest, err := loadManifestFrom(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to locate %s: %v\n", driver.ManifestName, err)
		return 1
	}
	home, err := driver.ResolveHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve LOX_HOME: %v\n", err)
		return 1
	}

	fmt.Fprintf(os.Stdout, "Manifest: %s\n", manifest.Path)
	fmt.Fprintf(os.Stdout, "Preludes: %d\n", len(manifest.PreludeOrder))
	fmt.Fprintf(os.Stdout, "Cache directory: %s\n", home)

	lockPath := manifest.LockPath()
	lock, err := driver.LoadLockfile(lockPath)
	lockCreated := false
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			fmt.Fprintf(os.Stderr, "lockfile root %q does not match manifest name %q\n", lock.Root, manifest.Name)
			return 1
		}
	case errors.Is(err, os.ErrNotExist):
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
		lockCreated = true
	default:
		fmt.Fprintf(os.Stderr, "failed to read lockfile: %v\n", err)
		return 1
	}
	lock.Path = lockPath
	lock.Tool = cliToolVersion

	changed, logs, err := driver.NewInstaller(manifest, home).Install(lock)
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to install preludes: %v\n", err)
		return 1
	}

	if changed || lockCreated {
		action := "Updated"
		if lockCreated {
			action = "Created"
		}
		if err := driver.WriteLockfile(lock, lockPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stdout, "%s %s: %s\n", action, driver.LockfileName, lock.Path)
	} else {
		fmt.Fprintf(os.Stdout, "%s already up to date: %s\n", driver.LockfileName, lock.Path)
	}
	fmt.Fprintln(os.Stdout, "Preludes installed.")
	return 0
}
