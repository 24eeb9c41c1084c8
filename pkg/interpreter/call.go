package interpreter

import (
	"github.com/PlazmaDevelopment/FFling/pkg/runtime"
)

// CallFunction invokes the global binding name with already evaluated args.
func (i *Interpreter) CallFunction(name string, args []runtime.Value) (runtime.Value, error) {
	callee, err := i.global.Get(name)
	if err != nil {
		return nil, asRuntimeError(err, 0)
	}
	return i.callValue(name, callee, args, i.global)
}

func (i *Interpreter) callValue(name string, callee runtime.Value, args []runtime.Value, env *runtime.Environment) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		return i.callFunction(fn, args, env)
	case runtime.NativeFunctionValue:
		return i.callNative(fn, args, env)
	default:
		return nil, runtimeErrorf("'%s' is not callable (%s)", name, callee.Kind())
	}
}

// callFunction binds parameters positionally. Extra arguments are dropped and
// missing ones stay unbound until referenced.
func (i *Interpreter) callFunction(fn *runtime.FunctionValue, args []runtime.Value, caller *runtime.Environment) (runtime.Value, error) {
	if i.callDepth >= MaxCallDepth {
		return nil, runtimeErrorf("maximum call depth (%d) exceeded in '%s'", MaxCallDepth, fn.Declaration.Name)
	}
	i.callDepth++
	defer func() { i.callDepth-- }()

	parent := caller
	if i.scoping == ScopeLexical && fn.Closure != nil {
		parent = fn.Closure
	}
	frame := runtime.NewEnvironment(parent)
	for idx, param := range fn.Declaration.Params {
		if idx >= len(args) {
			break
		}
		frame.Define(param, args[idx])
	}
	result, err := i.evaluateBlock(fn.Declaration.Body, frame)
	if err != nil {
		return nil, err
	}
	switch result.signal {
	case signalReturn:
		return result.value, nil
	case signalBreak, signalContinue:
		return nil, result.escapeError(0)
	}
	return runtime.VoidValue{}, nil
}

func (i *Interpreter) callNative(fn runtime.NativeFunctionValue, args []runtime.Value, env *runtime.Environment) (runtime.Value, error) {
	if fn.Impl == nil {
		return nil, runtimeErrorf("builtin '%s' is not available", fn.Name)
	}
	if fn.Arity >= 0 && len(args) != fn.Arity {
		return nil, runtimeErrorf("%s expects %d arguments, got %d", fn.Name, fn.Arity, len(args))
	}
	result, err := fn.Impl(i.callContext(env), args)
	if err != nil {
		return nil, asRuntimeError(err, 0)
	}
	if result == nil {
		result = runtime.VoidValue{}
	}
	return result, nil
}
