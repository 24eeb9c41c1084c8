package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the project manifest looked up by FindManifest.
const ManifestFileName = "package.yml"

// ErrManifestNotFound is returned when no package.yml exists above a directory.
var ErrManifestNotFound = errors.New("manifest: package.yml not found")

// Manifest represents the parsed contents of package.yml.
type Manifest struct {
	Path         string
	Name         string
	Version      string
	Main         string
	Authors      []string
	Dependencies map[string]*DependencySpec
}

// DependencySpec describes where a dependency is fetched from. A bare string
// in the manifest is shorthand for Git.
type DependencySpec struct {
	Git    string
	Rev    string
	Tag    string
	Branch string
	Path   string
}

// Source describes the dependency for lockfiles and logs.
func (d *DependencySpec) Source() string {
	if d == nil {
		return ""
	}
	if d.Path != "" {
		return "path:" + d.Path
	}
	switch {
	case d.Rev != "":
		return fmt.Sprintf("git+%s#rev=%s", d.Git, d.Rev)
	case d.Tag != "":
		return fmt.Sprintf("git+%s#tag=%s", d.Git, d.Tag)
	case d.Branch != "":
		return fmt.Sprintf("git+%s#branch=%s", d.Git, d.Branch)
	default:
		return "git+" + d.Git
	}
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

// FindManifest walks upward from start looking for package.yml.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve %s: %w", start, err)
	}
	for {
		candidate := filepath.Join(dir, ManifestFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrManifestNotFound
		}
		dir = parent
	}
}

// LoadManifest parses package.yml from disk, returning a validated manifest.
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

// MainPath resolves the entry file relative to the manifest directory.
func (m *Manifest) MainPath() (string, error) {
	if m == nil || m.Main == "" {
		return "", fmt.Errorf("manifest: no main entry defined")
	}
	if filepath.IsAbs(m.Main) {
		return m.Main, nil
	}
	return filepath.Join(filepath.Dir(m.Path), m.Main), nil
}

// DependencyNames returns dependency names in sorted order.
func (m *Manifest) DependencyNames() []string {
	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	for i, author := range m.Authors {
		if author == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("authors[%d] must be a non-empty string", i))
		}
	}
	for _, name := range m.DependencyNames() {
		for _, issue := range m.Dependencies[name].validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: %s", name, issue))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (d *DependencySpec) validate() []string {
	var errs []string
	if d.Git == "" && d.Path == "" {
		errs = append(errs, "must specify git or path")
	}
	if d.Git != "" && d.Path != "" {
		errs = append(errs, "path dependencies cannot also specify git")
	}
	pins := 0
	for _, pin := range []string{d.Rev, d.Tag, d.Branch} {
		if pin != "" {
			pins++
		}
	}
	if pins > 1 {
		errs = append(errs, "only one of rev, tag, or branch may be set")
	}
	if pins > 0 && d.Git == "" {
		errs = append(errs, "rev, tag, and branch require a git source")
	}
	return errs
}

type manifestFile struct {
	Name         string        `yaml:"name"`
	Version      string        `yaml:"version"`
	Main         string        `yaml:"main"`
	Authors      stringList    `yaml:"authors"`
	Dependencies dependencyMap `yaml:"dependencies"`
}

type dependencyMap map[string]*DependencySpec

type stringList []string

func (mf manifestFile) toManifest(path string) *Manifest {
	result := &Manifest{
		Path:         path,
		Name:         sanitizeSegment(mf.Name),
		Version:      strings.TrimSpace(mf.Version),
		Main:         strings.TrimSpace(mf.Main),
		Authors:      mf.Authors.Clone(),
		Dependencies: make(map[string]*DependencySpec, len(mf.Dependencies)),
	}
	for name, dep := range mf.Dependencies {
		if dep == nil {
			continue
		}
		copy := *dep
		copy.Git = strings.TrimSpace(copy.Git)
		copy.Rev = strings.TrimSpace(copy.Rev)
		copy.Tag = strings.TrimSpace(copy.Tag)
		copy.Branch = strings.TrimSpace(copy.Branch)
		copy.Path = strings.TrimSpace(copy.Path)
		result.Dependencies[name] = &copy
	}
	return result
}

func (l stringList) Clone() []string {
	if len(l) == 0 {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			items = append(items, strings.TrimSpace(str))
		}
		*l = stringList(items)
		return nil
	case 0:
		*l = nil
		return nil
	default:
		return fmt.Errorf("manifest: expected string or sequence for list but found %s", value.ShortTag())
	}
}

func (dm *dependencyMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		*dm = make(dependencyMap)
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: dependencies must be a mapping")
	}
	result := make(dependencyMap, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valNode := value.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}
		key = sanitizeSegment(key)
		if key == "" {
			return fmt.Errorf("manifest: dependency names must be non-empty")
		}
		var dep DependencySpec
		if err := dep.unmarshalYAML(valNode); err != nil {
			return fmt.Errorf("manifest: dependency %q: %w", key, err)
		}
		result[key] = &dep
	}
	*dm = result
	return nil
}

func (d *DependencySpec) unmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*d = DependencySpec{Git: strings.TrimSpace(value.Value)}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Git    string `yaml:"git"`
			Rev    string `yaml:"rev"`
			Tag    string `yaml:"tag"`
			Branch string `yaml:"branch"`
			Path   string `yaml:"path"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		*d = DependencySpec{Git: raw.Git, Rev: raw.Rev, Tag: raw.Tag, Branch: raw.Branch, Path: raw.Path}
		return nil
	default:
		return fmt.Errorf("expected string or mapping but found %s", value.ShortTag())
	}
}
