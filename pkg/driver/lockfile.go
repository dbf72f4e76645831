package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LockfileName is written next to lox.yml by `lox deps install`.
const LockfileName = "lox.lock"

// Lockfile models the lox.lock contents.
type Lockfile struct {
	Path      string
	Root      string
	Generated string
	Tool      string
	Preludes  []*LockedPrelude
}

// LockedPrelude pins one prelude to a concrete source and content checksum.
type LockedPrelude struct {
	Name     string
	Version  string
	Source   string
	Checksum string
}

// NewLockfile constructs a lockfile with metadata seeded for the provided root.
func NewLockfile(root, tool string) *Lockfile {
	return &Lockfile{
		Root:      sanitizeSegment(root),
		Generated: time.Now().UTC().Format(time.RFC3339),
		Tool:      strings.TrimSpace(tool),
		Preludes:  []*LockedPrelude{},
	}
}

// LoadLockfile parses lox.lock from disk.
func LoadLockfile(path string) (*Lockfile, error) {
	if path == "" {
		return nil, fmt.Errorf("lockfile: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw lockfileDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", abs, err)
	}

	lock := raw.toLockfile()
	lock.Path = abs
	return lock, nil
}

// WriteLockfile serialises the lockfile back to disk, refreshing metadata.
func WriteLockfile(lock *Lockfile, path string) error {
	if lock == nil {
		return fmt.Errorf("lockfile: nil lockfile")
	}
	if path == "" {
		if lock.Path == "" {
			return fmt.Errorf("lockfile: missing path")
		}
		path = lock.Path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}

	if lock.Generated == "" {
		lock.Generated = time.Now().UTC().Format(time.RFC3339)
	}
	lock.Path = abs
	lock.normalize()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(lock.toDisk()); err != nil {
		return fmt.Errorf("lockfile: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("lockfile: encoder close: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", abs, err)
	}
	return nil
}

// Find returns the pinned entry for name, or nil.
func (l *Lockfile) Find(name string) *LockedPrelude {
	if l == nil {
		return nil
	}
	key := sanitizeSegment(name)
	for _, prelude := range l.Preludes {
		if prelude != nil && prelude.Name == key {
			return prelude
		}
	}
	return nil
}

func (l *Lockfile) normalize() {
	if l == nil {
		return
	}
	l.Root = sanitizeSegment(l.Root)
	l.Tool = strings.TrimSpace(l.Tool)
	kept := l.Preludes[:0]
	for _, prelude := range l.Preludes {
		if prelude == nil {
			continue
		}
		prelude.Name = sanitizeSegment(prelude.Name)
		prelude.Version = strings.TrimSpace(prelude.Version)
		prelude.Source = strings.TrimSpace(prelude.Source)
		prelude.Checksum = strings.TrimSpace(prelude.Checksum)
		kept = append(kept, prelude)
	}
	l.Preludes = kept
	sort.SliceStable(l.Preludes, func(i, j int) bool {
		return l.Preludes[i].Name < l.Preludes[j].Name
	})
}

func (l *Lockfile) toDisk() lockfileDisk {
	preludes := make([]lockfilePrelude, 0, len(l.Preludes))
	for _, prelude := range l.Preludes {
		preludes = append(preludes, lockfilePrelude{
			Name:     prelude.Name,
			Version:  prelude.Version,
			Source:   prelude.Source,
			Checksum: prelude.Checksum,
		})
	}
	return lockfileDisk{
		Root:      l.Root,
		Generated: l.Generated,
		Tool:      l.Tool,
		Preludes:  preludes,
	}
}

type lockfileDisk struct {
	Root      string            `yaml:"root"`
	Generated string            `yaml:"generated"`
	Tool      string            `yaml:"tool"`
	Preludes  []lockfilePrelude `yaml:"preludes"`
}

type lockfilePrelude struct {
	Name     string `yaml:"name"`
	Version  string `yaml:"version"`
	Source   string `yaml:"source"`
	Checksum string `yaml:"checksum"`
}

func (d lockfileDisk) toLockfile() *Lockfile {
	lock := &Lockfile{
		Root:      d.Root,
		Generated: strings.TrimSpace(d.Generated),
		Tool:      d.Tool,
		Preludes:  make([]*LockedPrelude, 0, len(d.Preludes)),
	}
	for _, prelude := range d.Preludes {
		lock.Preludes = append(lock.Preludes, &LockedPrelude{
			Name:     prelude.Name,
			Version:  prelude.Version,
			Source:   prelude.Source,
			Checksum: prelude.Checksum,
		})
	}
	lock.normalize()
	return lock
}
