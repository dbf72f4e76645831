package driver

import (
	"fmt"

	"github.com/pkg/errors"
)

// Installer fetches the git preludes a manifest declares and pins them in a
// lockfile. Path preludes are read in place and never locked.
type Installer struct {
	manifest *Manifest
	fetcher  *GitFetcher
}

// NewInstaller binds manifest to the cache rooted at home.
func NewInstaller(manifest *Manifest, home string) *Installer {
	return &Installer{manifest: manifest, fetcher: NewGitFetcher(home)}
}

// Install refreshes lock so it holds exactly the manifest's git preludes. It
// reports whether lock changed, plus one progress line per prelude.
func (in *Installer) Install(lock *Lockfile) (bool, []string, error) {
	if lock == nil {
		return false, nil, errors.New("installer: nil lockfile")
	}
	var logs []string
	next := make([]*LockedPrelude, 0, len(in.manifest.PreludeOrder))
	for _, name := range in.manifest.PreludeOrder {
		spec := in.manifest.Preludes[name]
		if !spec.IsGit() {
			logs = append(logs, fmt.Sprintf("prelude %s: local path %s", name, spec.Path))
			continue
		}
		locked, dir, err := in.fetcher.Fetch(spec)
		if err != nil {
			return false, logs, err
		}
		logs = append(logs, fmt.Sprintf("prelude %s: %s -> %s", name, locked.Source, dir))
		next = append(next, locked)
	}

	changed := len(next) != len(lock.Preludes)
	if !changed {
		for _, locked := range next {
			prev := lock.Find(locked.Name)
			if prev == nil || *prev != *locked {
				changed = true
				break
			}
		}
	}
	lock.Preludes = next
	lock.normalize()
	return changed, logs, nil
}
