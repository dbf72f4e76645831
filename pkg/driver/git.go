package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/pkg/errors"
)

// GitFetcher checks out git preludes into the cache under
// <home>/preludes/<name>/<version>.
type GitFetcher struct {
	cacheDir string
}

// NewGitFetcher returns a fetcher rooted at home, or nil when home is empty.
func NewGitFetcher(home string) *GitFetcher {
	if home == "" {
		return nil
	}
	return &GitFetcher{cacheDir: filepath.Join(home, "preludes")}
}

// CheckoutDir is where a pinned prelude version lives in the cache.
func (g *GitFetcher) CheckoutDir(name, version string) string {
	return filepath.Join(g.cacheDir, sanitizeSegment(name), sanitizePathSegment(version))
}

// Fetch resolves spec to a commit, checks it out into the cache when it is
// not there yet, and returns the lock entry plus the checkout directory.
func (g *GitFetcher) Fetch(spec *PreludeSpec) (*LockedPrelude, string, error) {
	if g == nil {
		return nil, "", errors.New("git fetcher unavailable")
	}
	url := strings.TrimSpace(spec.Git)
	if url == "" {
		return nil, "", errors.Errorf("prelude %q: git URL required", spec.Name)
	}

	baseDir := filepath.Join(g.cacheDir, sanitizeSegment(spec.Name))
	version, commit, err := ensureGitCheckout(baseDir, url, spec)
	if err != nil {
		return nil, "", errors.Wrapf(err, "prelude %q", spec.Name)
	}

	checkoutDir := g.CheckoutDir(spec.Name, version)
	checksum, err := dirChecksum(checkoutDir)
	if err != nil {
		return nil, "", errors.Wrapf(err, "checksum %s", checkoutDir)
	}

	return &LockedPrelude{
		Name:     sanitizeSegment(spec.Name),
		Version:  version,
		Source:   fmt.Sprintf("git+%s@%s", url, commit),
		Checksum: checksum,
	}, checkoutDir, nil
}

func ensureGitCheckout(baseDir, url string, spec *PreludeSpec) (string, string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", errors.WithStack(err)
	}

	revision, descriptor, err := gitRevisionFromSpec(spec)
	if err != nil {
		return "", "", err
	}

	if version, commit, ok := cachedRevision(baseDir, strings.TrimSpace(spec.Rev)); ok {
		return version, commit, nil
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", "", errors.WithStack(err)
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", "", errors.WithStack(err)
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{URL: url})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", errors.Wrapf(err, "git clone %s", url)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", errors.Wrapf(err, "resolve revision %s", revision)
	}

	version := gitPinnedVersion(descriptor, hash.String())
	targetDir := filepath.Join(baseDir, sanitizePathSegment(version))
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return version, hash.String(), nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", errors.Wrap(err, "open worktree")
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", errors.Wrapf(err, "git checkout %s", revision)
	}
	// The cached copy is content only.
	if err := os.RemoveAll(filepath.Join(tmpDir, ".git")); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", errors.WithStack(err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", errors.WithStack(err)
	}
	return version, hash.String(), nil
}

// cachedRevision finds an existing checkout for a commit rev. A full hash
// is cached under its own name; an abbreviated one under
// gitPinnedVersion(rev, commit). Revs that are not hex may move and are
// always fetched; so are upper-case hex revs.
func cachedRevision(baseDir, rev string) (string, string, bool) {
	if len(rev) < 4 || len(rev) > 40 || !isHex(rev) {
		return "", "", false
	}
	if len(rev) == 40 {
		if _, err := os.Stat(filepath.Join(baseDir, rev)); err == nil {
			return rev, rev, true
		}
		return "", "", false
	}
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return "", "", false
	}
	prefix := rev + "_"
	for _, entry := range entries {
		commit, found := strings.CutPrefix(entry.Name(), prefix)
		if !found || !entry.IsDir() || len(commit) != 40 || !isHex(commit) || !strings.HasPrefix(commit, rev) {
			continue
		}
		return gitPinnedVersion(rev, commit), commit, true
	}
	return "", "", false
}

func isHex(s string) bool {
	for _, r := range s {
		if !(r >= '0' && r <= '9') && !(r >= 'a' && r <= 'f') {
			return false
		}
	}
	return true
}

func gitPinnedVersion(descriptor, commit string) string {
	commit = strings.TrimSpace(commit)
	descriptor = strings.TrimSpace(descriptor)
	if commit == "" {
		return descriptor
	}
	if descriptor == "" || descriptor == commit {
		return commit
	}
	return fmt.Sprintf("%s@%s", descriptor, commit)
}

func gitRevisionFromSpec(spec *PreludeSpec) (plumbing.Revision, string, error) {
	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		return plumbing.Revision(rev), rev, nil
	}
	if tag := strings.TrimSpace(spec.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag), tag, nil
	}
	if branch := strings.TrimSpace(spec.Branch); branch != "" {
		return plumbing.Revision("refs/heads/" + branch), branch, nil
	}
	return "", "", errors.New("git preludes require rev, tag, or branch")
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	result := b.String()
	if result == "" {
		return "head"
	}
	return result
}

// dirChecksum hashes each file's slash-separated path relative to root and
// its contents, in walk order.
func dirChecksum(root string) (string, error) {
	h := sha256.New()
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		h.Write([]byte(filepath.ToSlash(rel)))
		h.Write([]byte{0})
		h.Write(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
