package interpreter

import (
	"math"
	"math/big"

	"github.com/PlazmaDevelopment/FFling/pkg/runtime"
)

func applyBinaryOperator(op string, left runtime.Value, right runtime.Value) (runtime.Value, error) {
	switch op {
	case "and":
		if !isTruthy(left) {
			return left, nil
		}
		return right, nil
	case "or":
		if isTruthy(left) {
			return left, nil
		}
		return right, nil
	case "==":
		return runtime.BoolValue{Val: valuesEqual(left, right)}, nil
	case "<", ">":
		return evaluateComparison(op, left, right)
	case "+":
		if ls, ok := left.(runtime.StringValue); ok {
			if rs, ok := right.(runtime.StringValue); ok {
				return runtime.StringValue{Val: ls.Val + rs.Val}, nil
			}
		}
		return evaluateArithmetic(op, left, right)
	case "-", "*", "/", "%":
		return evaluateArithmetic(op, left, right)
	default:
		return nil, runtimeErrorf("unknown operator %s", op)
	}
}

func operandError(op string, left runtime.Value, right runtime.Value) *RuntimeError {
	return runtimeErrorf("unsupported operand types for %s: %s and %s", op, left.Kind(), right.Kind())
}

func isNumeric(v runtime.Value) bool {
	switch v.(type) {
	case runtime.IntegerValue, runtime.FloatValue:
		return true
	default:
		return false
	}
}

func toFloat(v runtime.Value) float64 {
	switch n := v.(type) {
	case runtime.IntegerValue:
		f, _ := new(big.Float).SetInt(n.Val).Float64()
		return f
	case runtime.FloatValue:
		return n.Val
	default:
		return math.NaN()
	}
}

// evaluateArithmetic keeps integer results when both sides are integers.
// Integer / and % truncate toward zero.
func evaluateArithmetic(op string, left runtime.Value, right runtime.Value) (runtime.Value, error) {
	if !isNumeric(left) || !isNumeric(right) {
		return nil, operandError(op, left, right)
	}
	li, lok := left.(runtime.IntegerValue)
	ri, rok := right.(runtime.IntegerValue)
	if lok && rok {
		result := new(big.Int)
		switch op {
		case "+":
			result.Add(li.Val, ri.Val)
		case "-":
			result.Sub(li.Val, ri.Val)
		case "*":
			result.Mul(li.Val, ri.Val)
		case "/":
			if ri.Val.Sign() == 0 {
				return nil, runtimeErrorf("division by zero")
			}
			result.Quo(li.Val, ri.Val)
		case "%":
			if ri.Val.Sign() == 0 {
				return nil, runtimeErrorf("modulo by zero")
			}
			result.Rem(li.Val, ri.Val)
		}
		return runtime.IntegerValue{Val: result}, nil
	}
	lf, rf := toFloat(left), toFloat(right)
	switch op {
	case "+":
		return runtime.FloatValue{Val: lf + rf}, nil
	case "-":
		return runtime.FloatValue{Val: lf - rf}, nil
	case "*":
		return runtime.FloatValue{Val: lf * rf}, nil
	case "/":
		if rf == 0 {
			return nil, runtimeErrorf("division by zero")
		}
		return runtime.FloatValue{Val: lf / rf}, nil
	default:
		if rf == 0 {
			return nil, runtimeErrorf("modulo by zero")
		}
		return runtime.FloatValue{Val: math.Mod(lf, rf)}, nil
	}
}

func evaluateComparison(op string, left runtime.Value, right runtime.Value) (runtime.Value, error) {
	var cmp int
	switch {
	case isNumeric(left) && isNumeric(right):
		li, lok := left.(runtime.IntegerValue)
		ri, rok := right.(runtime.IntegerValue)
		if lok && rok {
			cmp = li.Val.Cmp(ri.Val)
			break
		}
		lf, rf := toFloat(left), toFloat(right)
		switch {
		case lf < rf:
			cmp = -1
		case lf > rf:
			cmp = 1
		}
	case left.Kind() == runtime.KindString && right.Kind() == runtime.KindString:
		ls := left.(runtime.StringValue).Val
		rs := right.(runtime.StringValue).Val
		switch {
		case ls < rs:
			cmp = -1
		case ls > rs:
			cmp = 1
		}
	default:
		return nil, operandError(op, left, right)
	}
	if op == "<" {
		return runtime.BoolValue{Val: cmp < 0}, nil
	}
	return runtime.BoolValue{Val: cmp > 0}, nil
}

// valuesEqual compares numbers by value across integer and float; other
// kinds must match exactly.
func valuesEqual(left runtime.Value, right runtime.Value) bool {
	if isNumeric(left) && isNumeric(right) {
		li, lok := left.(runtime.IntegerValue)
		ri, rok := right.(runtime.IntegerValue)
		if lok && rok {
			return li.Val.Cmp(ri.Val) == 0
		}
		return toFloat(left) == toFloat(right)
	}
	switch l := left.(type) {
	case runtime.StringValue:
		r, ok := right.(runtime.StringValue)
		return ok && l.Val == r.Val
	case runtime.BoolValue:
		r, ok := right.(runtime.BoolValue)
		return ok && l.Val == r.Val
	case runtime.VoidValue:
		_, ok := right.(runtime.VoidValue)
		return ok
	case *runtime.TableValue:
		r, ok := right.(*runtime.TableValue)
		if !ok || l.Len() != r.Len() {
			return false
		}
		for _, key := range l.Keys() {
			lv, _ := l.Get(key)
			rv, found := r.Get(key)
			if !found || !valuesEqual(lv, rv) {
				return false
			}
		}
		return true
	case *runtime.FunctionValue:
		r, ok := right.(*runtime.FunctionValue)
		return ok && l == r
	case runtime.NativeFunctionValue:
		r, ok := right.(runtime.NativeFunctionValue)
		return ok && l.Name == r.Name
	default:
		return false
	}
}

func isTruthy(v runtime.Value) bool {
	switch val := v.(type) {
	case nil, runtime.VoidValue:
		return false
	case runtime.BoolValue:
		return val.Val
	case runtime.IntegerValue:
		return val.Val.Sign() != 0
	case runtime.FloatValue:
		return val.Val != 0
	case runtime.StringValue:
		return val.Val != ""
	case *runtime.TableValue:
		return val.Len() > 0
	default:
		return true
	}
}
