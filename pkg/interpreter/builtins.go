package interpreter

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PlazmaDevelopment/FFling/pkg/runtime"
)

func (i *Interpreter) registerBuiltin(fn runtime.NativeFunctionValue) {
	i.builtins[fn.Name] = fn
}

func (i *Interpreter) initBuiltins() {
	i.registerBuiltin(runtime.NativeFunctionValue{Name: "printline", Arity: -1, Impl: builtinPrintline})
	i.registerBuiltin(runtime.NativeFunctionValue{Name: "printlinef", Arity: -1, Impl: builtinPrintline})
	i.registerBuiltin(runtime.NativeFunctionValue{Name: "inputline", Arity: -1, Impl: builtinInputline})
}

// builtinPrintline writes its arguments separated by single spaces.
func builtinPrintline(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	parts := make([]string, len(args))
	for idx, arg := range args {
		parts[idx] = valueToString(arg)
	}
	if _, err := fmt.Fprintln(ctx.Out, strings.Join(parts, " ")); err != nil {
		return nil, err
	}
	return runtime.VoidValue{}, nil
}

// builtinInputline reads one line, after writing an optional prompt.
func builtinInputline(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) > 1 {
		return nil, fmt.Errorf("inputline expects at most 1 argument, got %d", len(args))
	}
	prompt := ""
	if len(args) == 1 {
		prompt = valueToString(args[0])
	}
	if ctx.ReadLine != nil {
		line, err := ctx.ReadLine(prompt)
		if err != nil {
			return nil, fmt.Errorf("inputline: %w", err)
		}
		return runtime.StringValue{Val: strings.TrimRight(line, "\r\n")}, nil
	}
	if prompt != "" {
		if _, err := io.WriteString(ctx.Out, prompt); err != nil {
			return nil, err
		}
	}
	if ctx.In == nil {
		return nil, fmt.Errorf("inputline: no input available")
	}
	line, err := ctx.In.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) || line == "" {
			return nil, fmt.Errorf("inputline: %w", err)
		}
	}
	line = strings.TrimRight(line, "\r\n")
	return runtime.StringValue{Val: line}, nil
}
