package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PlazmaDevelopment/FFling/pkg/driver"
	"github.com/PlazmaDevelopment/FFling/pkg/interpreter"
	"gopkg.in/yaml.v3"
)

func newTestShell(t *testing.T) (*shell, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cfg := driver.DefaultConfig()
	cfg.Path = filepath.Join(t.TempDir(), "config.yml")
	cfg.PackagesDir = filepath.Join(t.TempDir(), "packages")
	var out, errOut bytes.Buffer
	sh, err := newShell(cfg, &out, &errOut)
	if err != nil {
		t.Fatalf("newShell: %v", err)
	}
	return sh, &out, &errOut
}

func feed(sh *shell, lines ...string) bool {
	for _, line := range lines {
		if sh.process(line) {
			return true
		}
	}
	return false
}

func TestShellKeepsStateAcrossFragments(t *testing.T) {
	sh, out, errOut := newTestShell(t)
	feed(sh,
		`local total = 10`,
		`func add(a, b):\`,
		`    return a + b`,
		`printline(add(total, 5))`,
	)
	if errOut.Len() != 0 {
		t.Fatalf("unexpected errors %q", errOut.String())
	}
	if out.String() != "15\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if len(sh.history) != 3 || sh.history[1] != "func add(a, b):\n    return a + b" {
		t.Fatalf("unexpected history %q", sh.history)
	}
}

func TestShellPromptFollowsContinuation(t *testing.T) {
	sh, _, _ := newTestShell(t)
	if sh.prompt() != sh.config.Prompt {
		t.Fatalf("expected main prompt, got %q", sh.prompt())
	}
	sh.process(`if (True):\`)
	if sh.prompt() != sh.config.Continuation {
		t.Fatalf("expected continuation prompt, got %q", sh.prompt())
	}
	sh.process(`    printline("yes")`)
	if sh.prompt() != sh.config.Prompt {
		t.Fatalf("expected main prompt after fragment, got %q", sh.prompt())
	}
}

func TestShellReportsErrorsAndContinues(t *testing.T) {
	sh, out, errOut := newTestShell(t)
	feed(sh, `printline(nope)`, `printline(1 +)`, `printline("still here")`)
	errs := errOut.String()
	if !strings.Contains(errs, "Runtime Error: line 1: undefined name 'nope'") {
		t.Fatalf("expected runtime error, got %q", errs)
	}
	if !strings.Contains(errs, "Syntax Error: line 1: expected expression") {
		t.Fatalf("expected syntax error, got %q", errs)
	}
	if out.String() != "still here\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if sh.stats.fragments != 3 || sh.stats.errors != 2 {
		t.Fatalf("unexpected stats %+v", sh.stats)
	}
}

func TestShellQuitAndUnknownCommand(t *testing.T) {
	sh, out, _ := newTestShell(t)
	if sh.process(":nope") {
		t.Fatalf("unknown command should not end the session")
	}
	if !strings.Contains(out.String(), "Unknown command: nope.") {
		t.Fatalf("unexpected output %q", out.String())
	}
	if !sh.process(":quit") || !sh.process("  :EXIT  ") {
		t.Fatalf("expected quit commands to end the session")
	}
}

func TestShellEvalExecAndReset(t *testing.T) {
	sh, out, errOut := newTestShell(t)
	feed(sh, `:exec local a = 4`, `:eval a * 3`, `:reset`, `:eval a`)
	if out.String() != "12\nInterpreter reset.\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if !strings.Contains(errOut.String(), "undefined name 'a'") {
		t.Fatalf("expected reset to drop a, got %q", errOut.String())
	}
}

func TestShellHistoryCommands(t *testing.T) {
	sh, out, _ := newTestShell(t)
	cleared := false
	sh.onClearHistory = func() { cleared = true }
	feed(sh, `local apple = 1`, `local pear = 2`, `:search_history apple`)
	if !strings.Contains(out.String(), `"local apple = 1"`) || strings.Contains(out.String(), "pear") {
		t.Fatalf("unexpected search output %q", out.String())
	}
	out.Reset()
	sh.process(":list 2")
	if out.String() != "3: \":search_history apple\"\n4: \":list 2\"\n" {
		t.Fatalf("unexpected list output %q", out.String())
	}
	sh.process(":clear_history")
	if len(sh.history) != 0 || !cleared {
		t.Fatalf("expected history cleared, got %q", sh.history)
	}
}

func TestShellHistoryLimit(t *testing.T) {
	sh, _, _ := newTestShell(t)
	sh.process(":config history_limit 2")
	feed(sh, `local a = 1`, `local b = 2`, `local c = 3`)
	if len(sh.history) != 2 || sh.history[1] != "local c = 3" {
		t.Fatalf("unexpected history %q", sh.history)
	}
}

func TestShellConfigCommand(t *testing.T) {
	sh, out, errOut := newTestShell(t)
	sh.process(":config scoping lexical")
	if sh.interp.Scoping() != interpreter.ScopeLexical {
		t.Fatalf("expected lexical scoping, got %s", sh.interp.Scoping())
	}
	sh.process(":config prompt ff> ")
	if sh.config.Prompt != "ff>" {
		t.Fatalf("unexpected prompt %q", sh.config.Prompt)
	}
	sh.process(":config save")
	loaded, err := driver.LoadConfig(sh.config.Path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if loaded.Scoping != "lexical" || loaded.Prompt != "ff>" {
		t.Fatalf("unexpected saved config %+v", loaded)
	}
	sh.process(":config colour red")
	if !strings.Contains(errOut.String(), `unknown config key "colour"`) {
		t.Fatalf("expected config error, got %q", errOut.String())
	}
	out.Reset()
	sh.process(":config scoping")
	if out.String() != "scoping = \"lexical\"\n" {
		t.Fatalf("unexpected config output %q", out.String())
	}
}

func TestShellSaveLoadAndImport(t *testing.T) {
	sh, out, errOut := newTestShell(t)
	dir := t.TempDir()
	snippet := filepath.Join(dir, "snippet.ffling")
	sh.process(`:save printline("saved") ` + snippet)
	data, err := os.ReadFile(snippet)
	if err != nil || string(data) != "printline(\"saved\")\n" {
		t.Fatalf("unexpected saved file %q (%v)", data, err)
	}

	out.Reset()
	sh.process(":load " + snippet)
	if out.String() != "saved\nLoaded and executed "+snippet+"\n" {
		t.Fatalf("unexpected load output %q", out.String())
	}

	lib := filepath.Join(dir, "lib.ffling")
	writeFile(t, lib, `
local answer = 42
func double(n):
    return n * 2
`)
	out.Reset()
	sh.process(":import_code " + lib)
	if out.String() != "Imported "+lib+": answer, double\n" {
		t.Fatalf("unexpected import output %q", out.String())
	}

	session := filepath.Join(dir, "session.ffling")
	sh.process(":save " + session)
	data, _ = os.ReadFile(session)
	if !strings.Contains(string(data), "func double(n):") {
		t.Fatalf("expected session code in %q", data)
	}

	sh.process(":load " + filepath.Join(dir, "missing.ffling"))
	if !strings.Contains(errOut.String(), "Load error:") {
		t.Fatalf("expected load error, got %q", errOut.String())
	}
}

func TestShellExportVars(t *testing.T) {
	sh, out, errOut := newTestShell(t)
	feed(sh,
		`local count = 123456789012345678901234567890`,
		`local name = "FFling"`,
		`local flag = True`,
		`table person = {"name": "Ada", "true": 1}`,
		`func ignored():\`,
		`    return 1`,
	)
	path := filepath.Join(t.TempDir(), "vars.yml")
	sh.process(":export_vars " + path)
	if errOut.Len() != 0 {
		t.Fatalf("unexpected errors %q", errOut.String())
	}
	if !strings.Contains(out.String(), "Exported 4 variables") {
		t.Fatalf("unexpected output %q", out.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var decoded map[string]any
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if decoded["name"] != "FFling" || decoded["flag"] != true {
		t.Fatalf("unexpected export %v", decoded)
	}
	person, ok := decoded["person"].(map[string]any)
	if !ok || person["name"] != "Ada" || person["true"] != 1 {
		t.Fatalf("unexpected table export %v", decoded["person"])
	}
	if _, ok := decoded["ignored"]; ok {
		t.Fatalf("functions should not be exported")
	}
	if decoded["count"] != "123456789012345678901234567890" {
		t.Fatalf("expected big integer digits in export, got %v", decoded["count"])
	}
}

func TestShellTimingCommands(t *testing.T) {
	sh, out, _ := newTestShell(t)
	base := time.Unix(0, 0)
	calls := 0
	sh.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * 250 * time.Millisecond)
	}
	sh.process(`:time_exec printline("timed")`)
	if out.String() != "timed\nExecuted in 0.2500 seconds\n" {
		t.Fatalf("unexpected time_exec output %q", out.String())
	}
	out.Reset()
	sh.process(":benchmark 5")
	if out.String() != "Benchmark: 5 operations in 0.2500 seconds\n" {
		t.Fatalf("unexpected benchmark output %q", out.String())
	}
	if sh.interp.GlobalEnvironment().Has("x") {
		t.Fatalf("benchmark should not leak bindings into the session")
	}
}

func TestShellPackageCommands(t *testing.T) {
	sh, out, _ := newTestShell(t)
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "util.ffling"), `local util = 1`)
	initGitRepo(t, src)

	sh.process(":install util " + src)
	if !strings.Contains(out.String(), "Successfully installed util from "+src) {
		t.Fatalf("unexpected install output %q", out.String())
	}
	out.Reset()
	sh.process(":install util " + src)
	if out.String() != "Package util is already installed\n" {
		t.Fatalf("unexpected reinstall output %q", out.String())
	}
	out.Reset()
	sh.process(":update util")
	if !strings.HasPrefix(out.String(), "util is up to date") {
		t.Fatalf("unexpected update output %q", out.String())
	}
	out.Reset()
	sh.process(":install_list")
	if !strings.HasPrefix(out.String(), "Installed packages:\n  - util (") {
		t.Fatalf("unexpected list output %q", out.String())
	}
	out.Reset()
	sh.process(":uninstall util")
	sh.process(":uninstall util")
	if out.String() != "Uninstalled util\nPackage util not found\n" {
		t.Fatalf("unexpected uninstall output %q", out.String())
	}
	out.Reset()
	sh.process(":install_list")
	if out.String() != "No packages installed\n" {
		t.Fatalf("unexpected empty list output %q", out.String())
	}
}

func TestShellInfoTutorialAndCompletion(t *testing.T) {
	sh, out, _ := newTestShell(t)
	sh.process(":info")
	if !strings.Contains(out.String(), "Libraries: time") || !strings.Contains(out.String(), "Scoping: dynamic") {
		t.Fatalf("unexpected info output %q", out.String())
	}
	out.Reset()
	sh.process(":tutorial loops")
	if !strings.Contains(out.String(), "for i in range(5):") {
		t.Fatalf("unexpected tutorial output %q", out.String())
	}
	out.Reset()
	sh.process(":examples nope")
	if !strings.HasPrefix(out.String(), "Examples not found. Categories: basic,") {
		t.Fatalf("unexpected examples output %q", out.String())
	}

	if got := sh.complete(":he"); len(got) != 1 || got[0] != ":help" {
		t.Fatalf("unexpected command completion %v", got)
	}
	sh.process("local counter = 1")
	if got := sh.complete("printline(cou"); len(got) != 1 || got[0] != "printline(counter" {
		t.Fatalf("unexpected name completion %v", got)
	}
}

func TestShellInputlineReadsThroughLineEditor(t *testing.T) {
	sh, out, errOut := newTestShell(t)
	var prompts []string
	sh.interp.SetLineReader(func(prompt string) (string, error) {
		prompts = append(prompts, prompt)
		return "ada", nil
	})
	feed(sh, `local who = inputline("who? ")`, `printline("hi", who)`)
	if errOut.Len() != 0 {
		t.Fatalf("unexpected errors %q", errOut.String())
	}
	if out.String() != "hi ada\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if len(prompts) != 1 || prompts[0] != "who? " {
		t.Fatalf("unexpected prompts %q", prompts)
	}
}

// runSnippet executes src in a fresh shell and fails if it errors or does
// not finish within a few seconds.
func runSnippet(t *testing.T, label, src string) {
	t.Helper()
	sh, _, errOut := newTestShell(t)
	done := make(chan struct{})
	go func() {
		defer close(done)
		sh.execute(src)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("%s did not finish within 5s", label)
	}
	if errOut.Len() != 0 {
		t.Fatalf("%s failed: %s", label, errOut.String())
	}
}

func TestExamplesRun(t *testing.T) {
	for name, src := range examples {
		runSnippet(t, "example "+name, src)
	}
}

func TestTutorialCodeRuns(t *testing.T) {
	for topic, lesson := range tutorials {
		runSnippet(t, "tutorial "+topic, lesson.code)
	}
}

func TestTutorialLoopsShowsBreak(t *testing.T) {
	sh, out, _ := newTestShell(t)
	sh.process(":tutorial loops")
	shown := out.String()
	if !strings.Contains(shown, "    while (True):\n") || !strings.Contains(shown, "        break\n") {
		t.Fatalf("expected a while loop that breaks, got %q", shown)
	}
}
