package interpreter

import (
	"math"
	"strconv"
	"strings"

	"github.com/PlazmaDevelopment/FFling/pkg/runtime"
)

// FormatValue renders v the way printline shows it.
func FormatValue(v runtime.Value) string {
	return valueToString(v)
}

func valueToString(v runtime.Value) string {
	switch val := v.(type) {
	case nil, runtime.VoidValue:
		return "nil"
	case runtime.IntegerValue:
		return val.Val.String()
	case runtime.FloatValue:
		return formatFloat(val.Val)
	case runtime.StringValue:
		return val.Val
	case runtime.BoolValue:
		if val.Val {
			return "True"
		}
		return "False"
	case *runtime.TableValue:
		var b strings.Builder
		b.WriteByte('{')
		for idx, key := range val.Keys() {
			if idx > 0 {
				b.WriteString(", ")
			}
			entry, _ := val.Get(key)
			b.WriteString(strconv.Quote(key))
			b.WriteString(": ")
			b.WriteString(reprValue(entry))
		}
		b.WriteByte('}')
		return b.String()
	case *runtime.FunctionValue:
		return "<func " + val.Declaration.Name + ">"
	case runtime.NativeFunctionValue:
		return "<builtin " + val.Name + ">"
	default:
		return "<" + v.Kind().String() + ">"
	}
}

// reprValue quotes strings nested inside tables.
func reprValue(v runtime.Value) string {
	if s, ok := v.(runtime.StringValue); ok {
		return strconv.Quote(s.Val)
	}
	return valueToString(v)
}

func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	var out string
	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		out = strconv.FormatFloat(f, 'g', -1, 64)
	} else {
		out = strconv.FormatFloat(f, 'f', -1, 64)
	}
	if !strings.ContainsAny(out, ".e") {
		out += ".0"
	}
	return out
}
