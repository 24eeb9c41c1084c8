package packages

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PlazmaDevelopment/FFling/pkg/driver"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

var signature = &object.Signature{Name: "FFling Tests", Email: "ffling@example.com"}

// commitAll stages every file under dir and commits it, returning the hash.
func commitAll(t *testing.T, repo *git.Repository, message string) string {
	t.Helper()
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		t.Fatalf("stage files: %v", err)
	}
	sig := *signature
	sig.When = time.Now()
	hash, err := worktree.Commit(message, &git.CommitOptions{Author: &sig})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

func initGitRepo(t *testing.T, dir string) (*git.Repository, string) {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	return repo, commitAll(t, repo, "init")
}

func newSourceRepo(t *testing.T) (string, *git.Repository, string) {
	t.Helper()
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "main.ffling"), "printline(\"v1\")\n")
	repo, hash := initGitRepo(t, src)
	return src, repo, hash
}

func TestInstallFromGitRecordsLock(t *testing.T) {
	src, _, hash := newSourceRepo(t)
	manager := NewManager(filepath.Join(t.TempDir(), "packages"))

	pkg, err := manager.Install("Utils", &driver.DependencySpec{Git: src})
	if err != nil {
		t.Fatalf("install: %v", err)
	}
	if pkg.Name != "utils" || pkg.Version != hash {
		t.Fatalf("unexpected locked package %+v", pkg)
	}
	if !strings.HasPrefix(pkg.Checksum, "sha256:") || pkg.Source != "git+"+src {
		t.Fatalf("unexpected lock metadata %+v", pkg)
	}
	data, err := os.ReadFile(filepath.Join(manager.Dir(), "utils", "main.ffling"))
	if err != nil || string(data) != "printline(\"v1\")\n" {
		t.Fatalf("expected checked out file, got %q (%v)", data, err)
	}
	lock, err := driver.LoadLockfile(filepath.Join(manager.Dir(), driver.LockfileName))
	if err != nil {
		t.Fatalf("load lock: %v", err)
	}
	if locked, ok := lock.Find("utils"); !ok || locked.Version != hash {
		t.Fatalf("expected utils in lockfile, got %+v", lock.Packages)
	}
}

func TestInstallTwiceFails(t *testing.T) {
	src, _, _ := newSourceRepo(t)
	manager := NewManager(t.TempDir())
	if _, err := manager.Install("utils", &driver.DependencySpec{Git: src}); err != nil {
		t.Fatalf("install: %v", err)
	}
	_, err := manager.Install("utils", &driver.DependencySpec{Git: src})
	if !errors.Is(err, ErrAlreadyInstalled) {
		t.Fatalf("expected ErrAlreadyInstalled, got %v", err)
	}
}

func TestInstallPinnedTag(t *testing.T) {
	src, repo, first := newSourceRepo(t)
	head, err := repo.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if _, err := repo.CreateTag("v1", head.Hash(), nil); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	writeFile(t, filepath.Join(src, "main.ffling"), "printline(\"v2\")\n")
	commitAll(t, repo, "second")

	manager := NewManager(t.TempDir())
	pkg, err := manager.Install("utils", &driver.DependencySpec{Git: src, Tag: "v1"})
	if err != nil {
		t.Fatalf("install: %v", err)
	}
	if pkg.Version != first {
		t.Fatalf("expected tag commit %s, got %s", first, pkg.Version)
	}
	data, _ := os.ReadFile(filepath.Join(manager.Dir(), "utils", "main.ffling"))
	if string(data) != "printline(\"v1\")\n" {
		t.Fatalf("expected tagged contents, got %q", data)
	}
	if _, _, err := manager.Update("utils"); err == nil || !strings.Contains(err.Error(), "pinned to tag v1") {
		t.Fatalf("expected pinned update error, got %v", err)
	}
}

func TestUpdatePullsNewCommits(t *testing.T) {
	src, repo, first := newSourceRepo(t)
	manager := NewManager(t.TempDir())
	if _, err := manager.Install("utils", &driver.DependencySpec{Git: src}); err != nil {
		t.Fatalf("install: %v", err)
	}

	pkg, changed, err := manager.Update("utils")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if changed || pkg.Version != first {
		t.Fatalf("expected no change, got changed=%v %+v", changed, pkg)
	}

	writeFile(t, filepath.Join(src, "extra.ffling"), "printline(\"extra\")\n")
	second := commitAll(t, repo, "second")
	pkg, changed, err = manager.Update("utils")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !changed || pkg.Version != second {
		t.Fatalf("expected update to %s, got changed=%v %+v", second, changed, pkg)
	}
	if _, err := os.Stat(filepath.Join(manager.Dir(), "utils", "extra.ffling")); err != nil {
		t.Fatalf("expected pulled file: %v", err)
	}
}

func TestUpdateAndUninstallMissing(t *testing.T) {
	manager := NewManager(t.TempDir())
	if _, _, err := manager.Update("ghost"); !errors.Is(err, ErrNotInstalled) {
		t.Fatalf("expected ErrNotInstalled, got %v", err)
	}
	if err := manager.Uninstall("ghost"); !errors.Is(err, ErrNotInstalled) {
		t.Fatalf("expected ErrNotInstalled, got %v", err)
	}
}

func TestPathPackagesAndList(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "lib.ffling"), "local a = 1\n")
	manager := NewManager(t.TempDir())
	if _, err := manager.Install("local_lib", &driver.DependencySpec{Path: src}); err != nil {
		t.Fatalf("install: %v", err)
	}
	writeFile(t, filepath.Join(src, "lib.ffling"), "local a = 2\n")
	_, changed, err := manager.Update("local_lib")
	if err != nil || !changed {
		t.Fatalf("expected path update to change checksum (changed=%v, err=%v)", changed, err)
	}
	if err := os.MkdirAll(filepath.Join(manager.Dir(), "manual"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	pkgs, err := manager.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pkgs) != 2 || pkgs[0].Name != "local_lib" || pkgs[0].Version != "path" || pkgs[1].Name != "manual" {
		t.Fatalf("unexpected list %+v", pkgs)
	}

	if err := manager.Uninstall("local_lib"); err != nil {
		t.Fatalf("uninstall: %v", err)
	}
	pkgs, _ = manager.List()
	if len(pkgs) != 1 || pkgs[0].Name != "manual" {
		t.Fatalf("unexpected list after uninstall %+v", pkgs)
	}
}

func TestSyncInstallsManifestDependencies(t *testing.T) {
	src, _, hash := newSourceRepo(t)
	project := t.TempDir()
	writeFile(t, filepath.Join(project, "vendor", "helper", "h.ffling"), "local h = 1\n")
	writeFile(t, filepath.Join(project, driver.ManifestFileName), "name: demo\ndependencies:\n  utils: "+src+"\n  helper:\n    path: vendor/helper\n")
	manifest, err := driver.LoadManifest(filepath.Join(project, driver.ManifestFileName))
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	manager := NewManager(filepath.Join(project, "packages"))

	logs, err := manager.Sync(manifest)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(logs) != 2 || logs[0] != "Installed helper (path)" || logs[1] != "Installed utils ("+hash[:12]+")" {
		t.Fatalf("unexpected logs %v", logs)
	}
	logs, err = manager.Sync(manifest)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if !strings.Contains(logs[1], "utils is up to date") {
		t.Fatalf("expected up to date log, got %v", logs)
	}
}
