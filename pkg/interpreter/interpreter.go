package interpreter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/PlazmaDevelopment/FFling/pkg/ast"
	"github.com/PlazmaDevelopment/FFling/pkg/runtime"
)

// Scoping selects which frame a function call is nested under.
type Scoping int

const (
	// ScopeDynamic nests the call frame under the caller's frame.
	ScopeDynamic Scoping = iota
	// ScopeLexical nests the call frame under the frame the function was defined in.
	ScopeLexical
)

func (s Scoping) String() string {
	switch s {
	case ScopeDynamic:
		return "dynamic"
	case ScopeLexical:
		return "lexical"
	default:
		return fmt.Sprintf("scoping(%d)", int(s))
	}
}

// ParseScoping accepts "dynamic" or "lexical".
func ParseScoping(name string) (Scoping, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "dynamic":
		return ScopeDynamic, nil
	case "lexical":
		return ScopeLexical, nil
	default:
		return ScopeDynamic, fmt.Errorf("unknown scoping %q (expected dynamic or lexical)", name)
	}
}

// MaxCallDepth bounds nested user function calls.
const MaxCallDepth = 2000

// Interpreter evaluates programs against one persistent global environment.
type Interpreter struct {
	global    *runtime.Environment
	builtins  map[string]runtime.NativeFunctionValue
	libraries map[string][]runtime.NativeFunctionValue
	scoping   Scoping
	out       io.Writer
	in        *bufio.Reader
	readLine  func(prompt string) (string, error)
	now       func() time.Time
	sleep     func(time.Duration)
	callDepth int
}

// New returns an interpreter with builtins installed in a fresh global frame.
func New() *Interpreter {
	i := &Interpreter{
		builtins:  make(map[string]runtime.NativeFunctionValue),
		libraries: make(map[string][]runtime.NativeFunctionValue),
		out:       os.Stdout,
		in:        bufio.NewReader(os.Stdin),
		now:       time.Now,
		sleep:     time.Sleep,
	}
	i.initBuiltins()
	i.initLibraries()
	i.Reset()
	return i
}

// GlobalEnvironment returns the session's global frame.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// Reset discards every global binding and reinstalls the builtins.
func (i *Interpreter) Reset() {
	i.global = runtime.NewEnvironment(nil)
	for name, fn := range i.builtins {
		i.global.Define(name, fn)
	}
	i.callDepth = 0
}

func (i *Interpreter) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	i.out = w
}

func (i *Interpreter) Output() io.Writer {
	return i.out
}

func (i *Interpreter) SetInput(r io.Reader) {
	i.in = bufio.NewReader(r)
	i.readLine = nil
}

// SetLineReader routes inputline through read, which is handed the prompt.
// Hosts that already own the input stream, such as a line editor, use it so
// that only one reader buffers stdin. A nil read restores the SetInput reader.
func (i *Interpreter) SetLineReader(read func(prompt string) (string, error)) {
	i.readLine = read
}

func (i *Interpreter) SetScoping(s Scoping) {
	i.scoping = s
}

func (i *Interpreter) Scoping() Scoping {
	return i.scoping
}

// SetClock replaces the time source and sleeper used by the time library.
func (i *Interpreter) SetClock(now func() time.Time, sleep func(time.Duration)) {
	if now != nil {
		i.now = now
	}
	if sleep != nil {
		i.sleep = sleep
	}
}

// Builtins lists the names installed in every fresh global frame.
func (i *Interpreter) Builtins() []string {
	names := make([]string, 0, len(i.builtins))
	for name := range i.builtins {
		names = append(names, name)
	}
	return names
}

// Execute runs every top-level statement of program in env (the global frame
// when env is nil). Bindings made before an error are kept.
func (i *Interpreter) Execute(program *ast.Program, env *runtime.Environment) error {
	if program == nil {
		return fmt.Errorf("interpreter: program is nil")
	}
	if env == nil {
		env = i.global
	}
	for _, stmt := range program.Body {
		result, err := i.evaluateStatement(stmt, env)
		if err != nil {
			return err
		}
		if result.signal != signalNone {
			return result.escapeError(stmt.Line())
		}
	}
	return nil
}

func (i *Interpreter) callContext(env *runtime.Environment) *runtime.NativeCallContext {
	return &runtime.NativeCallContext{
		Env:      env,
		Out:      i.out,
		In:       i.in,
		ReadLine: i.readLine,
		Now:      i.now,
		Sleep:    i.sleep,
	}
}
