package interpreter

import (
	"errors"
	"fmt"
)

// RuntimeError aborts the current Execute call.
type RuntimeError struct {
	Message string
	Line    int
	Err     error
}

func (e *RuntimeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func runtimeErrorf(format string, args ...any) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...)}
}

// asRuntimeError wraps err unless it already is a RuntimeError, and stamps
// the line of the innermost statement that has one.
func asRuntimeError(err error, line int) error {
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) {
		if rtErr.Line == 0 {
			rtErr.Line = line
		}
		return err
	}
	return &RuntimeError{Message: err.Error(), Line: line, Err: err}
}
