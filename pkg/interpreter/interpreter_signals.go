package interpreter

import "github.com/PlazmaDevelopment/FFling/pkg/runtime"

type signalKind int

const (
	signalNone signalKind = iota
	signalBreak
	signalContinue
	signalReturn
)

// outcome is what a statement hands back to its enclosing construct.
// Loops consume break and continue; calls consume return.
type outcome struct {
	signal signalKind
	value  runtime.Value
}

var normal = outcome{}

func (o outcome) escapeError(line int) *RuntimeError {
	var msg string
	switch o.signal {
	case signalBreak:
		msg = "break outside loop"
	case signalContinue:
		msg = "continue outside loop"
	default:
		msg = "return outside function"
	}
	return &RuntimeError{Message: msg, Line: line}
}
