package internal

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// CeilDiv returns ceiling(a / b) for a >= 0 and b > 0.
func CeilDiv(a, b int) int {
	if a == 0 {
		return 0
	}
	return ((a - 1) / b) + 1
}

type runtimeError struct{ error }

func (runtimeError) RuntimeError() {}

// WrapPanic adds stack trace information to a recovered panic. Recovered
// errors stay reachable through errors.Is and errors.As.
func WrapPanic(p interface{}) interface{} {
	if p == nil {
		return nil
	}
	stack := debug.Stack()
	if err, isError := p.(error); isError {
		r := fmt.Errorf("%w\n%s\nrethrown at", err, stack)
		if _, isRuntimeError := p.(runtime.Error); isRuntimeError {
			return runtimeError{r}
		}
		return r
	}
	return fmt.Sprintf("%v\n%s\nrethrown at", p, stack)
}
