package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/PlazmaDevelopment/FFling/pkg/driver"
	"github.com/PlazmaDevelopment/FFling/pkg/interpreter"
	"github.com/PlazmaDevelopment/FFling/pkg/lexer"
	"github.com/PlazmaDevelopment/FFling/pkg/packages"
	"github.com/peterh/liner"
)

type shellStats struct {
	fragments int
	commands  int
	errors    int
}

// shell feeds submitted fragments to one persistent interpreter and handles
// colon commands.
type shell struct {
	interp  *interpreter.Interpreter
	config  *driver.Config
	history []string
	session []string
	pending []string
	out     io.Writer
	errOut  io.Writer
	now     func() time.Time
	started time.Time
	stats   shellStats

	// onClearHistory also drops the line editor's history when set.
	onClearHistory func()
}

func newShell(cfg *driver.Config, out, errOut io.Writer) (*shell, error) {
	if cfg == nil {
		cfg = driver.DefaultConfig()
	}
	interp, err := newInterpreter(cfg.Scoping)
	if err != nil {
		return nil, err
	}
	interp.SetOutput(out)
	return &shell{
		interp:  interp,
		config:  cfg,
		out:     out,
		errOut:  errOut,
		now:     time.Now,
		started: time.Now(),
	}, nil
}

func (s *shell) prompt() string {
	if len(s.pending) > 0 {
		return s.config.Continuation
	}
	return s.config.Prompt
}

// process handles one line of input and reports whether the session should end.
func (s *shell) process(line string) bool {
	line = strings.TrimRight(line, " \t\r")
	trimmed := strings.TrimSpace(line)
	if len(s.pending) == 0 && strings.HasPrefix(trimmed, ":") {
		s.remember(trimmed)
		s.stats.commands++
		return s.runCommand(trimmed[1:])
	}
	if strings.HasSuffix(line, "\\") {
		s.pending = append(s.pending, strings.TrimSuffix(line, "\\"))
		return false
	}
	if trimmed == "" && len(s.pending) == 0 {
		return false
	}
	code := strings.Join(append(s.pending, line), "\n")
	s.pending = nil
	s.remember(code)
	s.execute(code)
	return false
}

// execute runs code and reports failures; the session continues either way.
func (s *shell) execute(code string) bool {
	s.stats.fragments++
	if err := driver.Run(s.interp, code); err != nil {
		s.stats.errors++
		fmt.Fprintln(s.errOut, driver.DescribeError(err, ""))
		return false
	}
	s.session = append(s.session, code)
	return true
}

func (s *shell) remember(entry string) {
	s.history = append(s.history, entry)
	s.trimHistory()
}

func (s *shell) trimHistory() {
	limit := s.config.HistoryLimit
	if limit > 0 && len(s.history) > limit {
		s.history = append([]string(nil), s.history[len(s.history)-limit:]...)
	}
}

// packageManager opens the configured packages directory relative to the
// current working directory.
func (s *shell) packageManager() (*packages.Manager, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return packages.NewManager(packagesDirFor(cwd, s.config)), nil
}

// complete offers command names after a colon and keywords or globals otherwise.
func (s *shell) complete(line string) []string {
	if strings.HasPrefix(line, ":") && !strings.Contains(line, " ") {
		var out []string
		for _, cmd := range shellCommands {
			if strings.HasPrefix(":"+cmd.name, line) {
				out = append(out, ":"+cmd.name)
			}
		}
		return out
	}
	start := strings.LastIndexFunc(line, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}) + 1
	word := line[start:]
	if word == "" {
		return nil
	}
	candidates := append(lexer.Keywords(), s.interp.GlobalEnvironment().Keys()...)
	sort.Strings(candidates)
	var out []string
	for _, candidate := range candidates {
		if strings.HasPrefix(candidate, word) {
			out = append(out, line[:start]+candidate)
		}
	}
	return out
}

func runRepl(opts globalOptions) int {
	home, err := driver.ResolveHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve %s: %v\n", driver.HomeEnv, err)
		return 1
	}
	cfg, err := driver.LoadConfig(driver.ConfigPath(home))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read config: %v\n", err)
		return 1
	}
	if opts.scoping != "" {
		if err := cfg.Set("scoping", opts.scoping); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	sh, err := newShell(cfg, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(sh.complete)
	sh.onClearHistory = ln.ClearHistory
	sh.interp.SetLineReader(ln.Prompt)

	histPath := driver.HistoryPath(home)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if cfg.HistoryLimit == 0 {
			return
		}
		if err := os.MkdirAll(filepath.Dir(histPath), 0o755); err != nil {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprintf(os.Stdout, "FFling Terminal (%s)\n", cliToolVersion)
	fmt.Fprintln(os.Stdout, "Type :help for commands or FFling code directly.")
	fmt.Fprintln(os.Stdout, "Type :quit to exit.")

	for {
		line, err := ln.Prompt(sh.prompt())
		if errors.Is(err, liner.ErrPromptAborted) {
			sh.pending = nil
			fmt.Fprintln(os.Stdout, "Use :quit to exit.")
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(os.Stdout)
			fmt.Fprintln(os.Stdout, "Goodbye!")
			return 0
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "read input: %v\n", err)
			return 1
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if sh.process(line) {
			return 0
		}
	}
}
