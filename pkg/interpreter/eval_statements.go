package interpreter

import (
	"math/big"

	"github.com/PlazmaDevelopment/FFling/pkg/ast"
	"github.com/PlazmaDevelopment/FFling/pkg/runtime"
)

func (i *Interpreter) evaluateStatement(node ast.Statement, env *runtime.Environment) (outcome, error) {
	result, err := i.dispatchStatement(node, env)
	if err != nil {
		return normal, asRuntimeError(err, node.Line())
	}
	return result, nil
}

func (i *Interpreter) dispatchStatement(node ast.Statement, env *runtime.Environment) (outcome, error) {
	switch n := node.(type) {
	case *ast.Printline:
		return normal, i.evaluatePrintline(n, env)
	case *ast.Assignment:
		value, err := i.evaluateExpression(n.Value, env)
		if err != nil {
			return normal, err
		}
		env.Define(n.Name, value)
		return normal, nil
	case *ast.If:
		return i.evaluateIf(n, env)
	case *ast.For:
		return i.evaluateFor(n, env)
	case *ast.While:
		return i.evaluateWhile(n, env)
	case *ast.Break:
		return outcome{signal: signalBreak}, nil
	case *ast.Continue:
		return outcome{signal: signalContinue}, nil
	case *ast.Func:
		env.Define(n.Name, &runtime.FunctionValue{Declaration: n, Closure: env})
		return normal, nil
	case *ast.Return:
		var value runtime.Value = runtime.VoidValue{}
		if n.Value != nil {
			val, err := i.evaluateExpression(n.Value, env)
			if err != nil {
				return normal, err
			}
			value = val
		}
		return outcome{signal: signalReturn, value: value}, nil
	case *ast.Import:
		i.evaluateImport(n, env)
		return normal, nil
	case ast.Expression:
		_, err := i.evaluateExpression(n, env)
		return normal, err
	default:
		return normal, runtimeErrorf("unsupported statement type: %s", n.NodeType())
	}
}

// evaluateBlock runs stmts in env and stops at the first signal.
func (i *Interpreter) evaluateBlock(block ast.Block, env *runtime.Environment) (outcome, error) {
	for _, stmt := range block {
		result, err := i.evaluateStatement(stmt, env)
		if err != nil {
			return normal, err
		}
		if result.signal != signalNone {
			return result, nil
		}
	}
	return normal, nil
}

func (i *Interpreter) evaluatePrintline(n *ast.Printline, env *runtime.Environment) error {
	args, err := i.evaluateArguments(n.Args, env)
	if err != nil {
		return err
	}
	_, err = i.callNative(i.builtins["printline"], args, env)
	return err
}

func (i *Interpreter) evaluateIf(n *ast.If, env *runtime.Environment) (outcome, error) {
	cond, err := i.evaluateExpression(n.Condition, env)
	if err != nil {
		return normal, err
	}
	if isTruthy(cond) {
		return i.evaluateBlock(n.Then, env)
	}
	for _, clause := range n.Elifs {
		cond, err := i.evaluateExpression(clause.Condition, env)
		if err != nil {
			return normal, err
		}
		if isTruthy(cond) {
			return i.evaluateBlock(clause.Body, env)
		}
	}
	if n.Else != nil {
		return i.evaluateBlock(n.Else, env)
	}
	return normal, nil
}

func (i *Interpreter) evaluateFor(n *ast.For, env *runtime.Environment) (outcome, error) {
	boundVal, err := i.evaluateExpression(n.Range, env)
	if err != nil {
		return normal, err
	}
	bound, ok := boundVal.(runtime.IntegerValue)
	if !ok {
		return normal, runtimeErrorf("range expects an integer, got %s", boundVal.Kind())
	}
	one := big.NewInt(1)
	for counter := new(big.Int); counter.Cmp(bound.Val) < 0; counter.Add(counter, one) {
		scope := runtime.NewEnvironment(env)
		scope.Define(n.Var, runtime.IntegerValue{Val: new(big.Int).Set(counter)})
		result, err := i.evaluateBlock(n.Body, scope)
		if err != nil {
			return normal, err
		}
		switch result.signal {
		case signalBreak:
			return normal, nil
		case signalReturn:
			return result, nil
		}
	}
	return normal, nil
}

func (i *Interpreter) evaluateWhile(n *ast.While, env *runtime.Environment) (outcome, error) {
	for {
		cond, err := i.evaluateExpression(n.Condition, env)
		if err != nil {
			return normal, err
		}
		if !isTruthy(cond) {
			return normal, nil
		}
		result, err := i.evaluateBlock(n.Body, runtime.NewEnvironment(env))
		if err != nil {
			return normal, err
		}
		switch result.signal {
		case signalBreak:
			return normal, nil
		case signalReturn:
			return result, nil
		}
	}
}

// evaluateImport installs a known library into env. Unknown names are ignored.
func (i *Interpreter) evaluateImport(n *ast.Import, env *runtime.Environment) {
	for _, fn := range i.libraries[n.Path] {
		env.Define(fn.Name, fn)
	}
}
