package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PlazmaDevelopment/FFling/pkg/driver"
	"github.com/PlazmaDevelopment/FFling/pkg/interpreter"
	"github.com/PlazmaDevelopment/FFling/pkg/lexer"
	"github.com/PlazmaDevelopment/FFling/pkg/packages"
	"github.com/PlazmaDevelopment/FFling/pkg/runtime"
	"gopkg.in/yaml.v3"
)

// shellCommand handles ":name args". Raw is everything after the name with
// surrounding whitespace removed. Returning true ends the session.
type shellCommand struct {
	name    string
	usage   string
	summary string
	run     func(s *shell, args []string, raw string) bool
}

var shellCommands []shellCommand

func init() {
	shellCommands = []shellCommand{
		{"help", ":help", "Show this help", (*shell).cmdHelp},
		{"quit", ":quit", "Exit the terminal", (*shell).cmdQuit},
		{"exit", ":exit", "Exit the terminal", (*shell).cmdQuit},
		{"version", ":version", "Show version", (*shell).cmdVersion},
		{"history", ":history", "Show command history", (*shell).cmdHistory},
		{"clear_history", ":clear_history", "Clear history", (*shell).cmdClearHistory},
		{"search_history", ":search_history <query>", "Search history", (*shell).cmdSearchHistory},
		{"list", ":list [n]", "List recent commands", (*shell).cmdList},
		{"goto", ":goto <path>", "Change working directory", (*shell).cmdGoto},
		{"install", ":install <name> <git-url|path:dir>", "Install a package", (*shell).cmdInstall},
		{"uninstall", ":uninstall <name>", "Uninstall a package", (*shell).cmdUninstall},
		{"update", ":update <name>", "Update a package", (*shell).cmdUpdate},
		{"install_list", ":install_list", "List installed packages", (*shell).cmdInstallList},
		{"load", ":load <file>", "Load and run FFling code from a file", (*shell).cmdLoad},
		{"import_code", ":import_code <file>", "Run a file and report the names it defines", (*shell).cmdImportCode},
		{"save", ":save [code] <file>", "Save code, or the session, to a file", (*shell).cmdSave},
		{"exec", ":exec <code>", "Execute FFling code", (*shell).cmdExec},
		{"eval", ":eval <expr>", "Evaluate and print an expression", (*shell).cmdEval},
		{"reset", ":reset", "Reset interpreter state", (*shell).cmdReset},
		{"info", ":info", "Show interpreter info", (*shell).cmdInfo},
		{"stats", ":stats", "Show session stats", (*shell).cmdStats},
		{"config", ":config [key [value]|save]", "Show or change configuration", (*shell).cmdConfig},
		{"time_exec", ":time_exec <code>", "Time code execution", (*shell).cmdTimeExec},
		{"benchmark", ":benchmark [n]", "Run a benchmark", (*shell).cmdBenchmark},
		{"export_vars", ":export_vars <file>", "Export global variables as YAML", (*shell).cmdExportVars},
		{"tutorial", ":tutorial [topic]", "Built-in tutorial", (*shell).cmdTutorial},
		{"examples", ":examples [category]", "Show examples", (*shell).cmdExamples},
	}
}

func lookupCommand(name string) (shellCommand, bool) {
	for _, cmd := range shellCommands {
		if cmd.name == name {
			return cmd, true
		}
	}
	return shellCommand{}, false
}

func (s *shell) runCommand(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	name := strings.ToLower(fields[0])
	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
	cmd, ok := lookupCommand(name)
	if !ok {
		fmt.Fprintf(s.out, "Unknown command: %s. Type :help for available commands.\n", name)
		return false
	}
	return cmd.run(s, fields[1:], raw)
}

func (s *shell) usage(name string) {
	if cmd, ok := lookupCommand(name); ok {
		fmt.Fprintf(s.out, "Usage: %s\n", cmd.usage)
	}
}

func (s *shell) cmdHelp(_ []string, _ string) bool {
	fmt.Fprintln(s.out, "FFling Terminal Commands:")
	width := 0
	for _, cmd := range shellCommands {
		width = max(width, len(cmd.usage))
	}
	for _, cmd := range shellCommands {
		fmt.Fprintf(s.out, "  %-*s  %s\n", width, cmd.usage, cmd.summary)
	}
	fmt.Fprintln(s.out, "End a line with \\ to continue the input on the next line.")
	return false
}

func (s *shell) cmdQuit(_ []string, _ string) bool {
	fmt.Fprintln(s.out, "Goodbye!")
	return true
}

func (s *shell) cmdVersion(_ []string, _ string) bool {
	fmt.Fprintf(s.out, "FFling Terminal (%s)\n", cliToolVersion)
	return false
}

func (s *shell) printHistory(n int) {
	start := max(len(s.history)-n, 0)
	for idx, entry := range s.history[start:] {
		fmt.Fprintf(s.out, "%d: %q\n", start+idx+1, entry)
	}
}

func (s *shell) cmdHistory(_ []string, _ string) bool {
	s.printHistory(20)
	return false
}

func (s *shell) cmdList(args []string, _ string) bool {
	n := 20
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed <= 0 {
			s.usage("list")
			return false
		}
		n = parsed
	}
	s.printHistory(n)
	return false
}

func (s *shell) cmdClearHistory(_ []string, _ string) bool {
	s.history = nil
	if s.onClearHistory != nil {
		s.onClearHistory()
	}
	fmt.Fprintln(s.out, "History cleared.")
	return false
}

func (s *shell) cmdSearchHistory(_ []string, query string) bool {
	if query == "" {
		s.usage("search_history")
		return false
	}
	var matches []string
	for _, entry := range s.history {
		if strings.Contains(entry, query) && !strings.HasPrefix(entry, ":search_history") {
			matches = append(matches, entry)
		}
	}
	if len(matches) == 0 {
		fmt.Fprintf(s.out, "No history entries match %q\n", query)
		return false
	}
	for _, entry := range matches[max(len(matches)-10, 0):] {
		fmt.Fprintf(s.out, "%q\n", entry)
	}
	return false
}

func (s *shell) cmdGoto(_ []string, path string) bool {
	if path == "" {
		s.usage("goto")
		return false
	}
	if err := os.Chdir(path); err != nil {
		fmt.Fprintf(s.errOut, "Error changing directory: %v\n", err)
		return false
	}
	cwd, _ := os.Getwd()
	fmt.Fprintf(s.out, "Changed directory to: %s\n", cwd)
	return false
}

func (s *shell) cmdInstall(args []string, _ string) bool {
	if len(args) != 2 {
		s.usage("install")
		return false
	}
	manager, err := s.packageManager()
	if err != nil {
		fmt.Fprintf(s.errOut, "Failed to install %s: %v\n", args[0], err)
		return false
	}
	spec := &driver.DependencySpec{Git: args[1]}
	if path, ok := strings.CutPrefix(args[1], "path:"); ok {
		spec = &driver.DependencySpec{Path: path}
	}
	pkg, err := manager.Install(args[0], spec)
	switch {
	case errors.Is(err, packages.ErrAlreadyInstalled):
		fmt.Fprintf(s.out, "Package %s is already installed\n", args[0])
	case err != nil:
		fmt.Fprintf(s.errOut, "Failed to install %s: %v\n", args[0], err)
	default:
		fmt.Fprintf(s.out, "Successfully installed %s from %s (%s)\n", pkg.Name, args[1], shortHash(pkg.Version))
	}
	return false
}

func (s *shell) cmdUninstall(args []string, _ string) bool {
	if len(args) != 1 {
		s.usage("uninstall")
		return false
	}
	manager, err := s.packageManager()
	if err == nil {
		err = manager.Uninstall(args[0])
	}
	switch {
	case errors.Is(err, packages.ErrNotInstalled):
		fmt.Fprintf(s.out, "Package %s not found\n", args[0])
	case err != nil:
		fmt.Fprintf(s.errOut, "Failed to uninstall %s: %v\n", args[0], err)
	default:
		fmt.Fprintf(s.out, "Uninstalled %s\n", args[0])
	}
	return false
}

func (s *shell) cmdUpdate(args []string, _ string) bool {
	if len(args) != 1 {
		s.usage("update")
		return false
	}
	manager, err := s.packageManager()
	if err != nil {
		fmt.Fprintf(s.errOut, "Failed to update %s: %v\n", args[0], err)
		return false
	}
	pkg, changed, err := manager.Update(args[0])
	switch {
	case errors.Is(err, packages.ErrNotInstalled):
		fmt.Fprintf(s.out, "Package %s not found\n", args[0])
	case err != nil:
		fmt.Fprintf(s.errOut, "Failed to update %s: %v\n", args[0], err)
	case changed:
		fmt.Fprintf(s.out, "Updated %s (%s)\n", pkg.Name, shortHash(pkg.Version))
	default:
		fmt.Fprintf(s.out, "%s is up to date (%s)\n", pkg.Name, shortHash(pkg.Version))
	}
	return false
}

func (s *shell) cmdInstallList(_ []string, _ string) bool {
	manager, err := s.packageManager()
	if err != nil {
		fmt.Fprintf(s.errOut, "Failed to list packages: %v\n", err)
		return false
	}
	pkgs, err := manager.List()
	if err != nil {
		fmt.Fprintf(s.errOut, "Failed to list packages: %v\n", err)
		return false
	}
	if len(pkgs) == 0 {
		fmt.Fprintln(s.out, "No packages installed")
		return false
	}
	fmt.Fprintln(s.out, "Installed packages:")
	for _, pkg := range pkgs {
		if pkg.Version == "" {
			fmt.Fprintf(s.out, "  - %s\n", pkg.Name)
			continue
		}
		fmt.Fprintf(s.out, "  - %s (%s)\n", pkg.Name, shortHash(pkg.Version))
	}
	return false
}

func (s *shell) runFile(name, path string) bool {
	if path == "" {
		s.usage(name)
		return false
	}
	src, err := driver.ReadSource(path)
	if err != nil {
		fmt.Fprintf(s.errOut, "Load error: %v\n", err)
		return false
	}
	return s.execute(src)
}

func (s *shell) cmdLoad(_ []string, path string) bool {
	if s.runFile("load", path) {
		fmt.Fprintf(s.out, "Loaded and executed %s\n", path)
	}
	return false
}

func (s *shell) cmdImportCode(_ []string, path string) bool {
	before := s.interp.GlobalEnvironment().Snapshot()
	if !s.runFile("import_code", path) {
		return false
	}
	var defined []string
	for name, value := range s.interp.GlobalEnvironment().Snapshot() {
		if previous, ok := before[name]; !ok || !sameBinding(previous, value) {
			defined = append(defined, name)
		}
	}
	sort.Strings(defined)
	if len(defined) == 0 {
		fmt.Fprintf(s.out, "Imported %s (no new definitions)\n", path)
		return false
	}
	fmt.Fprintf(s.out, "Imported %s: %s\n", path, strings.Join(defined, ", "))
	return false
}

// sameBinding reports whether two bindings hold the same value. Native
// functions carry a func field and are compared by name.
func sameBinding(a, b runtime.Value) bool {
	fa, aNative := a.(runtime.NativeFunctionValue)
	fb, bNative := b.(runtime.NativeFunctionValue)
	if aNative || bNative {
		return aNative && bNative && fa.Name == fb.Name
	}
	return a == b
}

func (s *shell) cmdSave(args []string, raw string) bool {
	if len(args) == 0 {
		s.usage("save")
		return false
	}
	path := args[len(args)-1]
	code := strings.Join(s.session, "\n")
	if len(args) > 1 {
		code = strings.TrimSpace(strings.TrimSuffix(raw, path))
	}
	if !strings.HasSuffix(code, "\n") {
		code += "\n"
	}
	if err := driver.SaveFile(path, code); err != nil {
		fmt.Fprintf(s.errOut, "Save error: %v\n", err)
		return false
	}
	fmt.Fprintf(s.out, "Saved to %s\n", path)
	return false
}

func (s *shell) cmdExec(_ []string, code string) bool {
	if code == "" {
		s.usage("exec")
		return false
	}
	s.execute(code)
	return false
}

func (s *shell) cmdEval(_ []string, expr string) bool {
	if expr == "" {
		s.usage("eval")
		return false
	}
	s.execute("printline(" + expr + ")")
	return false
}

func (s *shell) cmdReset(_ []string, _ string) bool {
	s.interp.Reset()
	s.pending = nil
	s.session = nil
	fmt.Fprintln(s.out, "Interpreter reset.")
	return false
}

func (s *shell) cmdInfo(_ []string, _ string) bool {
	fmt.Fprintln(s.out, "FFling Terminal Info:")
	fmt.Fprintf(s.out, "Version: %s\n", cliToolVersion)
	fmt.Fprintf(s.out, "Scoping: %s\n", s.interp.Scoping())
	fmt.Fprintf(s.out, "History size: %d\n", len(s.history))
	fmt.Fprintf(s.out, "Builtins: %s\n", strings.Join(s.interp.Builtins(), ", "))
	fmt.Fprintf(s.out, "Libraries: %s\n", strings.Join(s.interp.Libraries(), ", "))
	fmt.Fprintf(s.out, "Keywords: %d\n", len(lexer.Keywords()))
	if s.config.Path != "" {
		fmt.Fprintf(s.out, "Config: %s\n", s.config.Path)
	}
	return false
}

func (s *shell) cmdStats(_ []string, _ string) bool {
	fmt.Fprintf(s.out, "Session stats: %d fragments executed, %d commands, %d errors\n",
		s.stats.fragments, s.stats.commands, s.stats.errors)
	fmt.Fprintf(s.out, "Uptime: %s\n", s.now().Sub(s.started).Round(time.Millisecond))
	return false
}

func (s *shell) cmdConfig(args []string, raw string) bool {
	switch {
	case len(args) == 0:
		for _, key := range driver.ConfigKeys() {
			value, _ := s.config.Get(key)
			fmt.Fprintf(s.out, "%s = %q\n", key, value)
		}
	case len(args) == 1 && args[0] == "save":
		if err := s.config.Save(); err != nil {
			fmt.Fprintf(s.errOut, "Config error: %v\n", err)
			return false
		}
		fmt.Fprintf(s.out, "Saved config to %s\n", s.config.Path)
	case len(args) == 1:
		value, err := s.config.Get(args[0])
		if err != nil {
			fmt.Fprintf(s.errOut, "Config error: %v\n", err)
			return false
		}
		fmt.Fprintf(s.out, "%s = %q\n", args[0], value)
	default:
		key := args[0]
		value := strings.TrimSpace(strings.TrimPrefix(raw, key))
		if err := s.config.Set(key, value); err != nil {
			fmt.Fprintf(s.errOut, "Config error: %v\n", err)
			return false
		}
		s.applyConfig(key)
		fmt.Fprintf(s.out, "Set %s to %q\n", key, value)
	}
	return false
}

// applyConfig pushes a changed setting into the running session.
func (s *shell) applyConfig(key string) {
	switch key {
	case "scoping":
		if mode, err := interpreter.ParseScoping(s.config.Scoping); err == nil {
			s.interp.SetScoping(mode)
		}
	case "history_limit":
		s.trimHistory()
	}
}

func (s *shell) cmdTimeExec(_ []string, code string) bool {
	if code == "" {
		s.usage("time_exec")
		return false
	}
	start := s.now()
	s.execute(code)
	fmt.Fprintf(s.out, "Executed in %.4f seconds\n", s.now().Sub(start).Seconds())
	return false
}

const benchmarkSource = "local x = 1 + 1"

func (s *shell) cmdBenchmark(args []string, _ string) bool {
	n := 1000
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed <= 0 {
			s.usage("benchmark")
			return false
		}
		n = parsed
	}
	program, err := driver.Compile(benchmarkSource)
	if err != nil {
		fmt.Fprintln(s.errOut, driver.DescribeError(err, ""))
		return false
	}
	scratch := runtime.NewEnvironment(s.interp.GlobalEnvironment())
	start := s.now()
	for i := 0; i < n; i++ {
		if err := s.interp.Execute(program, scratch); err != nil {
			fmt.Fprintln(s.errOut, driver.DescribeError(err, ""))
			return false
		}
	}
	fmt.Fprintf(s.out, "Benchmark: %d operations in %.4f seconds\n", n, s.now().Sub(start).Seconds())
	return false
}

func (s *shell) cmdExportVars(_ []string, path string) bool {
	if path == "" {
		s.usage("export_vars")
		return false
	}
	doc, count := exportGlobals(s.interp.GlobalEnvironment())
	var b strings.Builder
	encoder := yaml.NewEncoder(&b)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		fmt.Fprintf(s.errOut, "Export error: %v\n", err)
		return false
	}
	if err := encoder.Close(); err != nil {
		fmt.Fprintf(s.errOut, "Export error: %v\n", err)
		return false
	}
	if err := driver.SaveFile(path, b.String()); err != nil {
		fmt.Fprintf(s.errOut, "Export error: %v\n", err)
		return false
	}
	fmt.Fprintf(s.out, "Exported %d variables to %s\n", count, path)
	return false
}

// exportGlobals renders every data binding of env as a YAML mapping sorted by
// name. Functions and builtins are skipped.
func exportGlobals(env *runtime.Environment) (*yaml.Node, int) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	count := 0
	for _, name := range env.Keys() {
		value, err := env.Get(name)
		if err != nil {
			continue
		}
		node, ok := exportValue(value)
		if !ok {
			continue
		}
		doc.Content = append(doc.Content, stringKey(name), node)
		count++
	}
	return doc, count
}

func stringKey(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
}

func exportValue(value runtime.Value) (*yaml.Node, bool) {
	switch v := value.(type) {
	case runtime.IntegerValue:
		if !v.Val.IsInt64() {
			// Wider integers keep their digits as a string.
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Val.String()}, true
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: v.Val.String()}, true
	case runtime.FloatValue:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: yamlFloat(v.Val)}, true
	case runtime.StringValue:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Val}, true
	case runtime.BoolValue:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.Val)}, true
	case runtime.VoidValue:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, true
	case *runtime.TableValue:
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, key := range v.Keys() {
			entry, _ := v.Get(key)
			child, ok := exportValue(entry)
			if !ok {
				child = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: interpreter.FormatValue(entry)}
			}
			node.Content = append(node.Content, stringKey(key), child)
		}
		return node, true
	default:
		return nil, false
	}
}

func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	text := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(text, ".e") {
		text += ".0"
	}
	return text
}

// tutorial is one :tutorial topic. Code is printed indented between the
// title and the note, and must run to completion in a fresh shell.
type tutorial struct {
	title string
	code  string
	note  string
}

var tutorials = map[string]tutorial{
	"intro": {
		title: "FFling Tutorial - Intro",
		code: `printline("Hello")
local a = 10
printline("a is", a)`,
		note: "Topics: conditions, functions, imports, intro, loops, tables, variables",
	},
	"variables": {
		title: "Variables",
		code: `local x = 5 + 3
local name = "FFling"
printline(name, x)`,
		note: "Assigning an existing name rebinds it in the current scope.",
	},
	"conditions": {
		title: "Conditions",
		code: `local x = 3
if (x > 3):
    printline("big")
elif (x == 3):
    printline("three")
else:
    printline("small")`,
	},
	"loops": {
		title: "Loops",
		code: `for i in range(5):
    printline(i)
while (True):
    printline("once")
    break`,
		note: "Every iteration runs in a fresh scope, so a local set inside the body is gone\n" +
			"by the next check. Leave a while loop with break; skip ahead with continue.",
	},
	"functions": {
		title: "Functions",
		code: `func add(a, b):
    return a + b
printline(add(2, 3))`,
	},
	"tables": {
		title: "Tables",
		code: `table person = {"name": "Ada", "age": 36}
printline(person)`,
	},
	"imports": {
		title: "Imports",
		code: `import time
local start = time_time()
time_sleep(0)
printline(time_time() - start)`,
	},
}

func (t tutorial) String() string {
	var b strings.Builder
	b.WriteString(t.title + ":\n")
	for _, line := range strings.Split(t.code, "\n") {
		b.WriteString("    " + line + "\n")
	}
	if t.note != "" {
		b.WriteString(t.note + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

var examples = map[string]string{
	"basic": `printline("Hello World")
local a = 10
printline("Value:", a)`,
	"logic": `if (True and False):
    printline("Yes")
else:
    printline("No")`,
	"loops": `for i in range(3):
    if (i == 1):
        continue
    printline(i)`,
	"functions": `func fact(n):
    if (n < 2):
        return 1
    return n * fact(n - 1)
printline(fact(20))`,
	"tables": `table config = {"debug": True, "level": 3}
printline(config)`,
	"time": `import time
local start = time_time()
time_sleep(0)
printline(time_time() - start)`,
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (s *shell) cmdTutorial(args []string, _ string) bool {
	topic := "intro"
	if len(args) > 0 {
		topic = strings.ToLower(args[0])
	}
	lesson, ok := tutorials[topic]
	if !ok {
		fmt.Fprintf(s.out, "Tutorial not found. Topics: %s\n", strings.Join(sortedKeys(tutorials), ", "))
		return false
	}
	fmt.Fprintln(s.out, lesson)
	return false
}

func (s *shell) cmdExamples(args []string, _ string) bool {
	category := "basic"
	if len(args) > 0 {
		category = strings.ToLower(args[0])
	}
	text, ok := examples[category]
	if !ok {
		fmt.Fprintf(s.out, "Examples not found. Categories: %s\n", strings.Join(sortedKeys(examples), ", "))
		return false
	}
	fmt.Fprintln(s.out, text)
	return false
}
