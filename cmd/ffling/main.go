package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PlazmaDevelopment/FFling/pkg/driver"
	"github.com/PlazmaDevelopment/FFling/pkg/interpreter"
)

const cliToolVersion = "ffling 1.0.0"

// globalOptions are flags accepted ahead of any subcommand.
type globalOptions struct {
	scoping string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, args, err := parseGlobalFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(args[1:], opts)
	case "repl":
		if len(args) > 1 {
			fmt.Fprintf(os.Stderr, "ffling repl does not take arguments (received %s)\n", strings.Join(args[1:], " "))
			return 1
		}
		return runRepl(opts)
	case "deps":
		return runDeps(args[1:])
	default:
		if strings.HasPrefix(args[0], "-") {
			fmt.Fprintf(os.Stderr, "unknown flag %s\n", args[0])
			return 1
		}
		return runEntry(args, opts)
	}
}

func parseGlobalFlags(args []string) (globalOptions, []string, error) {
	var opts globalOptions
loop:
	for len(args) > 0 {
		switch arg := args[0]; {
		case arg == "--scoping":
			if len(args) < 2 {
				return opts, nil, errors.New("--scoping requires a value (dynamic or lexical)")
			}
			opts.scoping = args[1]
			args = args[2:]
		case strings.HasPrefix(arg, "--scoping="):
			opts.scoping = strings.TrimPrefix(arg, "--scoping=")
			args = args[1:]
		default:
			break loop
		}
	}
	if opts.scoping != "" {
		if _, err := interpreter.ParseScoping(opts.scoping); err != nil {
			return opts, nil, err
		}
	}
	return opts, args, nil
}

// newInterpreter builds an interpreter using scoping, or the default mode
// when scoping is empty.
func newInterpreter(scoping string) (*interpreter.Interpreter, error) {
	interp := interpreter.New()
	if scoping != "" {
		mode, err := interpreter.ParseScoping(scoping)
		if err != nil {
			return nil, err
		}
		interp.SetScoping(mode)
	}
	return interp, nil
}

func runEntry(args []string, opts globalOptions) int {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return 1
	}

	var entry string
	if len(args) == 1 {
		entry = strings.TrimSpace(args[0])
	} else {
		manifest, err := loadManifestFrom(".")
		if err != nil {
			if errors.Is(err, driver.ErrManifestNotFound) {
				fmt.Fprintln(os.Stderr, "ffling run requires a source file (package.yml not found)")
			} else {
				fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
			}
			return 1
		}
		entry, err = manifest.MainPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "manifest error: %v\n", err)
			return 1
		}
	}
	if entry == "" {
		fmt.Fprintln(os.Stderr, "ffling run requires a source file")
		return 1
	}
	return executeEntry(entry, opts)
}

func executeEntry(entry string, opts globalOptions) int {
	interp, err := newInterpreter(opts.scoping)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := driver.RunFile(interp, entry); err != nil {
		fmt.Fprintln(os.Stderr, driver.DescribeError(err, entry))
		return 1
	}
	return 0
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	path, err := driver.FindManifest(start)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(path)
}

// packagesDirFor resolves the packages directory against base unless the
// configured value is absolute.
func packagesDirFor(base string, cfg *driver.Config) string {
	dir := cfg.PackagesDir
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "%s\n\n", cliToolVersion)
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  ffling [--scoping=dynamic|lexical] <file.ffling>")
	fmt.Fprintln(os.Stderr, "  ffling run [file.ffling]        run a file, or the package.yml main entry")
	fmt.Fprintln(os.Stderr, "  ffling repl                     start the interactive shell")
	fmt.Fprintln(os.Stderr, "  ffling deps install             install package.yml dependencies")
	fmt.Fprintln(os.Stderr, "  ffling deps update [name...]    update installed dependencies")
	fmt.Fprintln(os.Stderr, "  ffling version                  print the tool version")
}
