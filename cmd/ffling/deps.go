package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PlazmaDevelopment/FFling/pkg/driver"
	"github.com/PlazmaDevelopment/FFling/pkg/packages"
)

func runDeps(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "ffling deps requires a subcommand (install, update)")
		return 1
	}
	switch args[0] {
	case "install":
		if len(args) > 1 {
			fmt.Fprintf(os.Stderr, "ffling deps install does not take arguments (received %s)\n", strings.Join(args[1:], " "))
			return 1
		}
		return runDepsInstall()
	case "update":
		return runDepsUpdate(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown deps subcommand %q\n", args[0])
		return 1
	}
}

// projectManager locates package.yml from the working directory and opens
// the packages directory next to it.
func projectManager() (*driver.Manifest, *packages.Manager, bool) {
	manifest, err := loadManifestFrom(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to locate package.yml: %v\n", err)
		return nil, nil, false
	}
	home, err := driver.ResolveHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve %s: %v\n", driver.HomeEnv, err)
		return nil, nil, false
	}
	cfg, err := driver.LoadConfig(driver.ConfigPath(home))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read config: %v\n", err)
		return nil, nil, false
	}
	dir := packagesDirFor(filepath.Dir(manifest.Path), cfg)
	return manifest, packages.NewManager(dir), true
}

func runDepsInstall() int {
	manifest, manager, ok := projectManager()
	if !ok {
		return 1
	}

	fmt.Fprintf(os.Stdout, "Manifest: %s\n", manifest.Path)
	fmt.Fprintf(os.Stdout, "Root package: %s\n", manifest.Name)
	fmt.Fprintf(os.Stdout, "Dependencies: %d\n", len(manifest.Dependencies))
	fmt.Fprintf(os.Stdout, "Packages directory: %s\n", manager.Dir())

	logs, err := manager.Sync(manifest)
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve dependencies: %v\n", err)
		return 1
	}
	fmt.Fprintln(os.Stdout, "Dependencies installed.")
	return 0
}

func runDepsUpdate(targets []string) int {
	manifest, manager, ok := projectManager()
	if !ok {
		return 1
	}

	names := targets
	if len(names) == 0 {
		for _, name := range manifest.DependencyNames() {
			if manager.Installed(name) {
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 {
		fmt.Fprintln(os.Stdout, "No installed dependencies to update.")
		return 0
	}

	for _, name := range names {
		if _, ok := manifest.Dependencies[name]; !ok {
			fmt.Fprintf(os.Stderr, "dependency %q is not declared in %s\n", name, manifest.Path)
			return 1
		}
		pkg, changed, err := manager.Update(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to update %s: %v\n", name, err)
			return 1
		}
		if changed {
			fmt.Fprintf(os.Stdout, "Updated %s (%s)\n", pkg.Name, shortHash(pkg.Version))
		} else {
			fmt.Fprintf(os.Stdout, "%s is up to date (%s)\n", pkg.Name, shortHash(pkg.Version))
		}
	}
	return 0
}

func shortHash(version string) string {
	if len(version) > 12 {
		return version[:12]
	}
	return version
}
