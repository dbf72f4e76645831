package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestName is the file the CLI looks for when no script path is given.
const ManifestName = "lox.yml"

// Manifest represents the parsed contents of lox.yml.
type Manifest struct {
	Path         string
	Name         string
	Version      string
	Strict       bool
	Targets      map[string]*TargetSpec
	TargetOrder  []string
	Preludes     map[string]*PreludeSpec
	PreludeOrder []string
}

// TargetSpec names a runnable script.
type TargetSpec struct {
	Name string
	Main string
}

// PreludeSpec describes a script executed before every target, either from
// a local path or from a git repository pinned by rev, tag, or branch.
type PreludeSpec struct {
	Name   string
	Path   string
	Git    string
	Rev    string
	Tag    string
	Branch string
	Main   string
}

// IsGit reports whether the prelude is fetched from a repository.
func (p *PreludeSpec) IsGit() bool {
	return p != nil && p.Git != ""
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses lox.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// Dir returns the directory relative paths in the manifest are resolved against.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

// LockPath returns the lockfile location next to the manifest.
func (m *Manifest) LockPath() string {
	return filepath.Join(m.Dir(), LockfileName)
}

// HasGitPreludes reports whether any prelude needs a lockfile entry.
func (m *Manifest) HasGitPreludes() bool {
	for _, prelude := range m.Preludes {
		if prelude.IsGit() {
			return true
		}
	}
	return false
}

var ErrNoTarget = errors.New("manifest: no targets defined")

// DefaultTarget returns the first target in manifest order.
func (m *Manifest) DefaultTarget() (*TargetSpec, error) {
	if m == nil || len(m.TargetOrder) == 0 {
		return nil, ErrNoTarget
	}
	return m.Targets[m.TargetOrder[0]], nil
}

// FindTarget looks up a target by sanitized or original name.
func (m *Manifest) FindTarget(name string) (*TargetSpec, bool) {
	if m == nil {
		return nil, false
	}
	key := sanitizeSegment(strings.TrimSpace(name))
	if key == "" {
		return nil, false
	}
	target, ok := m.Targets[key]
	return target, ok && target != nil
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	for _, key := range m.TargetOrder {
		target := m.Targets[key]
		if target.Main == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q requires a main script", target.Name))
		}
	}
	for _, key := range m.PreludeOrder {
		for _, issue := range m.Preludes[key].validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("preludes.%s: %s", key, issue))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (p *PreludeSpec) validate() []string {
	var errs []string
	switch {
	case p.Path == "" && p.Git == "":
		errs = append(errs, "must specify path or git")
	case p.Path != "" && p.Git != "":
		errs = append(errs, "path preludes cannot also specify git")
	}
	pins := 0
	for _, pin := range []string{p.Rev, p.Tag, p.Branch} {
		if pin != "" {
			pins++
		}
	}
	if p.Git == "" && pins > 0 {
		errs = append(errs, "rev, tag, and branch apply only to git preludes")
	}
	if p.Git != "" {
		if pins == 0 {
			errs = append(errs, "git preludes require rev, tag, or branch")
		} else if pins > 1 {
			errs = append(errs, "git preludes accept only one of rev, tag, or branch")
		}
		if p.Main == "" {
			errs = append(errs, "git preludes require a main script")
		}
	}
	return errs
}

type manifestFile struct {
	Name     string     `yaml:"name"`
	Version  string     `yaml:"version"`
	Strict   *bool      `yaml:"strict"`
	Targets  targetMap  `yaml:"targets"`
	Preludes preludeMap `yaml:"preludes"`
}

type targetYAML struct {
	Main string `yaml:"main"`
}

type preludeYAML struct {
	Path   string `yaml:"path"`
	Git    string `yaml:"git"`
	Rev    string `yaml:"rev"`
	Tag    string `yaml:"tag"`
	Branch string `yaml:"branch"`
	Main   string `yaml:"main"`
}

// targetMap keeps targets in document order; a scalar value is shorthand
// for {main: value}.
type targetMap struct {
	items []targetMapEntry
}

type targetMapEntry struct {
	name string
	spec targetYAML
}

func (tm *targetMap) UnmarshalYAML(value *yaml.Node) error {
	keys, values, err := mappingEntries(value, "targets")
	if err != nil {
		return err
	}
	tm.items = make([]targetMapEntry, 0, len(keys))
	for idx, key := range keys {
		node := values[idx]
		var entry targetYAML
		if node.Kind == yaml.ScalarNode {
			entry.Main = node.Value
		} else if err := node.Decode(&entry); err != nil {
			return fmt.Errorf("manifest: target %q: %w", key, err)
		}
		tm.items = append(tm.items, targetMapEntry{name: key, spec: entry})
	}
	return nil
}

// preludeMap keeps preludes in document order; a scalar value is shorthand
// for {path: value}.
type preludeMap struct {
	items []preludeMapEntry
}

type preludeMapEntry struct {
	name string
	spec preludeYAML
}

func (pm *preludeMap) UnmarshalYAML(value *yaml.Node) error {
	keys, values, err := mappingEntries(value, "preludes")
	if err != nil {
		return err
	}
	pm.items = make([]preludeMapEntry, 0, len(keys))
	for idx, key := range keys {
		node := values[idx]
		var entry preludeYAML
		if node.Kind == yaml.ScalarNode {
			entry.Path = node.Value
		} else if err := node.Decode(&entry); err != nil {
			return fmt.Errorf("manifest: prelude %q: %w", key, err)
		}
		pm.items = append(pm.items, preludeMapEntry{name: key, spec: entry})
	}
	return nil
}

func mappingEntries(value *yaml.Node, field string) ([]string, []*yaml.Node, error) {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		return nil, nil, nil
	}
	if value.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("manifest: %s must be a mapping", field)
	}
	keys := make([]string, 0, len(value.Content)/2)
	values := make([]*yaml.Node, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var key string
		if err := value.Content[i].Decode(&key); err != nil {
			return nil, nil, err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, nil, fmt.Errorf("manifest: %s must not use empty keys", field)
		}
		keys = append(keys, key)
		values = append(values, value.Content[i+1])
	}
	return keys, values, nil
}

func (mf manifestFile) toManifest(path string) *Manifest {
	result := &Manifest{
		Path:     path,
		Name:     sanitizeSegment(strings.TrimSpace(mf.Name)),
		Version:  strings.TrimSpace(mf.Version),
		Strict:   true,
		Targets:  make(map[string]*TargetSpec, len(mf.Targets.items)),
		Preludes: make(map[string]*PreludeSpec, len(mf.Preludes.items)),
	}
	if mf.Strict != nil {
		result.Strict = *mf.Strict
	}
	for _, item := range mf.Targets.items {
		name := sanitizeSegment(item.name)
		if _, exists := result.Targets[name]; exists {
			continue
		}
		result.Targets[name] = &TargetSpec{Name: name, Main: strings.TrimSpace(item.spec.Main)}
		result.TargetOrder = append(result.TargetOrder, name)
	}
	for _, item := range mf.Preludes.items {
		name := sanitizeSegment(item.name)
		if _, exists := result.Preludes[name]; exists {
			continue
		}
		result.Preludes[name] = &PreludeSpec{
			Name:   name,
			Path:   strings.TrimSpace(item.spec.Path),
			Git:    strings.TrimSpace(item.spec.Git),
			Rev:    strings.TrimSpace(item.spec.Rev),
			Tag:    strings.TrimSpace(item.spec.Tag),
			Branch: strings.TrimSpace(item.spec.Branch),
			Main:   strings.TrimSpace(item.spec.Main),
		}
		result.PreludeOrder = append(result.PreludeOrder, name)
	}
	return result
}

func sanitizeSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	var b strings.Builder
	for _, r := range segment {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_':
			b.WriteRune(r)
		case r == '-' || r == '.' || r == ' ':
			b.WriteByte('_')
		}
	}
	return b.String()
}
