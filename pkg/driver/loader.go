package driver

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Source is one script ready for the pipeline.
type Source struct {
	Name string
	Path string
	Text string
}

// Program is an entry script plus the preludes that run before it in the
// same global environment.
type Program struct {
	Preludes []Source
	Main     Source
	Strict   bool
}

// Loader turns a script path or a manifest target into a Program.
type Loader struct {
	home string
	lock *Lockfile
}

// NewLoader returns a loader that finds git preludes in the cache at home
// using the versions pinned in lock.
func NewLoader(home string, lock *Lockfile) *Loader {
	return &Loader{home: home, lock: lock}
}

// LoadFile loads a standalone script with no preludes.
func (l *Loader) LoadFile(path string) (*Program, error) {
	main, err := readSource(path, path)
	if err != nil {
		return nil, err
	}
	return &Program{Main: main, Strict: true}, nil
}

// LoadTarget loads the named target from manifest, or its first target
// when name is empty.
func (l *Loader) LoadTarget(manifest *Manifest, name string) (*Program, error) {
	var target *TargetSpec
	if name == "" {
		found, err := manifest.DefaultTarget()
		if err != nil {
			return nil, err
		}
		target = found
	} else {
		found, ok := manifest.FindTarget(name)
		if !ok {
			return nil, errors.Errorf("manifest: unknown target %q", name)
		}
		target = found
	}

	program := &Program{Strict: manifest.Strict}
	for _, preludeName := range manifest.PreludeOrder {
		path, err := l.preludePath(manifest, manifest.Preludes[preludeName])
		if err != nil {
			return nil, err
		}
		source, err := readSource(preludeName, path)
		if err != nil {
			return nil, err
		}
		program.Preludes = append(program.Preludes, source)
	}
	main, err := readSource(target.Name, filepath.Join(manifest.Dir(), target.Main))
	if err != nil {
		return nil, err
	}
	program.Main = main
	return program, nil
}

func (l *Loader) preludePath(manifest *Manifest, spec *PreludeSpec) (string, error) {
	if !spec.IsGit() {
		path := filepath.Join(manifest.Dir(), spec.Path)
		if spec.Main != "" {
			path = filepath.Join(path, spec.Main)
		}
		return path, nil
	}
	locked := l.lock.Find(spec.Name)
	if locked == nil {
		return "", errors.Errorf("prelude %q is not installed; run `lox deps install`", spec.Name)
	}
	fetcher := NewGitFetcher(l.home)
	if fetcher == nil {
		return "", errors.Errorf("prelude %q: cache directory unavailable", spec.Name)
	}
	dir := fetcher.CheckoutDir(spec.Name, locked.Version)
	checksum, err := dirChecksum(dir)
	if err != nil {
		return "", errors.Wrapf(err, "prelude %q is missing from the cache; run `lox deps install`", spec.Name)
	}
	if locked.Checksum != "" && checksum != locked.Checksum {
		return "", errors.Errorf("prelude %q: checksum mismatch for %s", spec.Name, dir)
	}
	return filepath.Join(dir, spec.Main), nil
}

func readSource(name, path string) (Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Source{}, errors.Wrapf(err, "resolve %s", path)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return Source{}, errors.Wrapf(err, "read %s", path)
	}
	return Source{Name: name, Path: abs, Text: string(data)}, nil
}
