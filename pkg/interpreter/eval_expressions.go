package interpreter

import (
	"errors"
	"math/big"

	"github.com/PlazmaDevelopment/FFling/pkg/ast"
	"github.com/PlazmaDevelopment/FFling/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.IntegerLiteral:
		return runtime.IntegerValue{Val: new(big.Int).Set(n.Value)}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.Variable:
		return env.Get(n.Name)
	case *ast.BinOp:
		// Both operands are always evaluated, and/or included.
		left, err := i.evaluateExpression(n.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := i.evaluateExpression(n.Right, env)
		if err != nil {
			return nil, err
		}
		return applyBinaryOperator(n.Operator, left, right)
	case *ast.Table:
		table := runtime.NewTable()
		for _, entry := range n.Entries {
			value, err := i.evaluateExpression(entry.Value, env)
			if err != nil {
				return nil, err
			}
			table.Set(entry.Key, value)
		}
		return table, nil
	case *ast.Call:
		return i.evaluateCall(n, env)
	default:
		return nil, runtimeErrorf("unsupported expression type: %s", n.NodeType())
	}
}

func (i *Interpreter) evaluateArguments(exprs []ast.Expression, env *runtime.Environment) ([]runtime.Value, error) {
	args := make([]runtime.Value, 0, len(exprs))
	for _, expr := range exprs {
		value, err := i.evaluateExpression(expr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, value)
	}
	return args, nil
}

func (i *Interpreter) evaluateCall(n *ast.Call, env *runtime.Environment) (runtime.Value, error) {
	callee, err := env.Get(n.Callee)
	if err != nil {
		var undefined *runtime.UndefinedNameError
		if errors.As(err, &undefined) {
			return nil, &RuntimeError{Message: "undefined function '" + n.Callee + "'", Err: err}
		}
		return nil, err
	}
	args, err := i.evaluateArguments(n.Args, env)
	if err != nil {
		return nil, err
	}
	return i.callValue(n.Callee, callee, args, env)
}
