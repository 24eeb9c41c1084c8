package runtime

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/PlazmaDevelopment/FFling/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindVoid Kind = iota
	KindInteger
	KindFloat
	KindString
	KindBool
	KindTable
	KindFunction
	KindNativeFunction
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindTable:
		return "table"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "native_function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

// VoidValue is produced by calls that return nothing.
type VoidValue struct{}

func (VoidValue) Kind() Kind { return KindVoid }

type IntegerValue struct {
	Val *big.Int
}

func (IntegerValue) Kind() Kind { return KindInteger }

// NewInt wraps a machine integer.
func NewInt(v int64) IntegerValue {
	return IntegerValue{Val: big.NewInt(v)}
}

// FloatValue only comes from native functions; there is no float literal.
type FloatValue struct {
	Val float64
}

func (FloatValue) Kind() Kind { return KindFloat }

type StringValue struct {
	Val string
}

func (StringValue) Kind() Kind { return KindString }

type BoolValue struct {
	Val bool
}

func (BoolValue) Kind() Kind { return KindBool }

// TableValue is a string keyed mapping that remembers insertion order.
type TableValue struct {
	keys    []string
	entries map[string]Value
}

func NewTable() *TableValue {
	return &TableValue{entries: make(map[string]Value)}
}

func (*TableValue) Kind() Kind { return KindTable }

// Set inserts or replaces key. Replacing keeps the original position.
func (t *TableValue) Set(key string, value Value) {
	if _, ok := t.entries[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.entries[key] = value
}

func (t *TableValue) Get(key string) (Value, bool) {
	v, ok := t.entries[key]
	return v, ok
}

// Keys returns keys in insertion order.
func (t *TableValue) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

func (t *TableValue) Len() int {
	return len(t.keys)
}

// FunctionValue is a user function. Closure is the frame active when the
// definition ran.
type FunctionValue struct {
	Declaration *ast.Func
	Closure     *Environment
}

func (*FunctionValue) Kind() Kind { return KindFunction }

// NativeCallContext exposes host services to builtins.
type NativeCallContext struct {
	Env      *Environment
	Out      io.Writer
	In       *bufio.Reader
	// ReadLine, when set, replaces In and receives the prompt itself.
	ReadLine func(prompt string) (string, error)
	Now      func() time.Time
	Sleep    func(time.Duration)
}

// NativeFunc receives already evaluated arguments.
type NativeFunc func(ctx *NativeCallContext, args []Value) (Value, error)

type NativeFunctionValue struct {
	Name string
	// Arity is the expected argument count; negative means variadic.
	Arity int
	Impl  NativeFunc
}

func (NativeFunctionValue) Kind() Kind { return KindNativeFunction }
