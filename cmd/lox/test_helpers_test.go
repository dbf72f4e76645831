package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o644))
}

func initGitRepo(t *testing.T, dir string) string {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	worktree, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, worktree.AddGlob("."))
	hash, err := worktree.Commit("init", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Lox CLI",
			Email: "lox@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)
	return hash.String()
}

// chdir switches the working directory for the rest of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(prev)
	})
}

func captureCLI(t *testing.T, args []string) (int, string, string) {
	t.Helper()
	return captureCLIWithInput(t, args, "")
}

func captureCLIWithInput(t *testing.T, args []string, input string) (int, string, string) {
	t.Helper()

	stdin := os.Stdin
	stdout := os.Stdout
	stderr := os.Stderr

	rIn, wIn, err := os.Pipe()
	require.NoError(t, err)
	rOut, wOut, err := os.Pipe()
	require.NoError(t, err)
	rErr, wErr, err := os.Pipe()
	require.NoError(t, err)
	_, err = wIn.WriteString(input)
	require.NoError(t, err)
	require.NoError(t, wIn.Close())

	os.Stdin = rIn
	os.Stdout = wOut
	os.Stderr = wErr

	outCh := make(chan []byte)
	errCh := make(chan []byte)
	go func() {
		data, _ := io.ReadAll(rOut)
		outCh <- data
	}()
	go func() {
		data, _ := io.ReadAll(rErr)
		errCh <- data
	}()

	code := run(args)

	closeOutErr := wOut.Close()
	closeErrErr := wErr.Close()

	os.Stdin = stdin
	os.Stdout = stdout
	os.Stderr = stderr
	require.NoError(t, closeOutErr)
	require.NoError(t, closeErrErr)

	outBytes := <-outCh
	errBytes := <-errCh
	_ = rIn.Close()
	_ = rOut.Close()
	_ = rErr.Close()

	return code, string(outBytes), string(errBytes)
}
