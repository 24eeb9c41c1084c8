package packages

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PlazmaDevelopment/FFling/pkg/driver"
)

var (
	ErrAlreadyInstalled = errors.New("package already installed")
	ErrNotInstalled     = errors.New("package not installed")
)

const lockTool = "ffling"

// Manager installs packages as directories under one packages directory and
// records them in package.lock inside it.
type Manager struct {
	dir string
}

func NewManager(dir string) *Manager {
	return &Manager{dir: dir}
}

// Dir is the packages directory.
func (m *Manager) Dir() string {
	return m.dir
}

func (m *Manager) packageDir(name string) string {
	return filepath.Join(m.dir, name)
}

func (m *Manager) lockPath() string {
	return filepath.Join(m.dir, driver.LockfileName)
}

func (m *Manager) loadLock() (*driver.Lockfile, error) {
	lock, err := driver.LoadLockfile(m.lockPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return driver.NewLockfile(filepath.Base(m.dir), lockTool), nil
		}
		return nil, err
	}
	return lock, nil
}

func (m *Manager) record(pkg *driver.LockedPackage) error {
	lock, err := m.loadLock()
	if err != nil {
		return err
	}
	lock.Upsert(pkg)
	return driver.WriteLockfile(lock, m.lockPath())
}

func installedName(name string) (string, error) {
	clean := driver.SanitizeName(name)
	if clean == "" {
		return "", fmt.Errorf("invalid package name %q", name)
	}
	return clean, nil
}

// Installed reports whether a directory exists for name.
func (m *Manager) Installed(name string) bool {
	clean, err := installedName(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(m.packageDir(clean))
	return err == nil && info.IsDir()
}

// Install fetches spec into the packages directory under name.
func (m *Manager) Install(name string, spec *driver.DependencySpec) (*driver.LockedPackage, error) {
	clean, err := installedName(name)
	if err != nil {
		return nil, err
	}
	if spec == nil || (spec.Git == "" && spec.Path == "") {
		return nil, fmt.Errorf("install %s: a git url or path is required", clean)
	}
	if m.Installed(clean) {
		return nil, fmt.Errorf("install %s: %w", clean, ErrAlreadyInstalled)
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return nil, fmt.Errorf("install %s: %w", clean, err)
	}
	target := m.packageDir(clean)

	var version string
	if spec.Path != "" {
		if err := copyOrSyncDir(spec.Path, target); err != nil {
			_ = os.RemoveAll(target)
			return nil, fmt.Errorf("install %s: copy %s: %w", clean, spec.Path, err)
		}
		version = "path"
	} else {
		version, err = cloneInto(m.dir, target, spec)
		if err != nil {
			return nil, fmt.Errorf("install %s: %w", clean, err)
		}
	}
	return m.finish(clean, version, spec.Source())
}

func (m *Manager) finish(name, version, source string) (*driver.LockedPackage, error) {
	checksum, err := dirChecksum(m.packageDir(name))
	if err != nil {
		return nil, fmt.Errorf("checksum %s: %w", name, err)
	}
	pkg := &driver.LockedPackage{
		Name:     name,
		Version:  version,
		Source:   source,
		Checksum: "sha256:" + checksum,
	}
	if err := m.record(pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

// Update refreshes an installed package. Git checkouts that follow a branch
// are pulled; path packages are copied again. The bool reports a change.
func (m *Manager) Update(name string) (*driver.LockedPackage, bool, error) {
	clean, err := installedName(name)
	if err != nil {
		return nil, false, err
	}
	if !m.Installed(clean) {
		return nil, false, fmt.Errorf("update %s: %w", clean, ErrNotInstalled)
	}
	lock, err := m.loadLock()
	if err != nil {
		return nil, false, err
	}
	previous, _ := lock.Find(clean)
	source := ""
	if previous != nil {
		source = previous.Source
	}

	var version string
	if path, ok := strings.CutPrefix(source, "path:"); ok {
		if err := copyOrSyncDir(path, m.packageDir(clean)); err != nil {
			return nil, false, fmt.Errorf("update %s: %w", clean, err)
		}
		version = "path"
	} else {
		kind, value := sourcePin(source)
		if kind == "rev" || kind == "tag" {
			return nil, false, fmt.Errorf("update %s: pinned to %s %s, reinstall to change it", clean, kind, value)
		}
		branch := ""
		if kind == "branch" {
			branch = value
		}
		version, err = pull(m.packageDir(clean), branch)
		if err != nil {
			return nil, false, fmt.Errorf("update %s: %w", clean, err)
		}
		if source == "" {
			source = "git"
		}
	}
	pkg, err := m.finish(clean, version, source)
	if err != nil {
		return nil, false, err
	}
	changed := previous == nil || previous.Version != pkg.Version || previous.Checksum != pkg.Checksum
	return pkg, changed, nil
}

// Uninstall removes the package directory and its lock entry.
func (m *Manager) Uninstall(name string) error {
	clean, err := installedName(name)
	if err != nil {
		return err
	}
	if !m.Installed(clean) {
		return fmt.Errorf("uninstall %s: %w", clean, ErrNotInstalled)
	}
	if err := os.RemoveAll(m.packageDir(clean)); err != nil {
		return fmt.Errorf("uninstall %s: %w", clean, err)
	}
	lock, err := m.loadLock()
	if err != nil {
		return err
	}
	if lock.Remove(clean) {
		return driver.WriteLockfile(lock, m.lockPath())
	}
	return nil
}

// List returns every installed package, using lock data when present.
func (m *Manager) List() ([]*driver.LockedPackage, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	lock, err := m.loadLock()
	if err != nil {
		return nil, err
	}
	var out []*driver.LockedPackage
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if pkg, ok := lock.Find(entry.Name()); ok {
			out = append(out, pkg)
			continue
		}
		out = append(out, &driver.LockedPackage{Name: entry.Name()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Sync installs every manifest dependency that is missing or whose source
// changed, returning one log line per dependency.
func (m *Manager) Sync(manifest *driver.Manifest) ([]string, error) {
	if manifest == nil {
		return nil, nil
	}
	lock, err := m.loadLock()
	if err != nil {
		return nil, err
	}
	var logs []string
	for _, name := range manifest.DependencyNames() {
		spec := manifest.Dependencies[name]
		if spec.Path != "" && !filepath.IsAbs(spec.Path) {
			resolved := *spec
			resolved.Path = filepath.Join(filepath.Dir(manifest.Path), spec.Path)
			spec = &resolved
		}
		if m.Installed(name) {
			if locked, ok := lock.Find(name); ok && locked.Source == spec.Source() {
				logs = append(logs, fmt.Sprintf("%s is up to date (%s)", name, shortVersion(locked.Version)))
				continue
			}
			if err := m.Uninstall(name); err != nil {
				return logs, err
			}
		}
		pkg, err := m.Install(name, spec)
		if err != nil {
			return logs, err
		}
		logs = append(logs, fmt.Sprintf("Installed %s (%s)", pkg.Name, shortVersion(pkg.Version)))
	}
	return logs, nil
}

func shortVersion(version string) string {
	if len(version) > 12 {
		return version[:12]
	}
	return version
}
