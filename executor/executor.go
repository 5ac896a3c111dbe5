/*
Package executor provides the substrate that runs the tasks of a
partitioned operation.

An Executor has a single operation: run n independent tasks and block until
all of them have terminated. Tasks may run in any order and on any
goroutine. Every task is run, even when other tasks fail, and the first
failure observed is returned to the caller. Tasks are not retried.

If one or more tasks panic, the executor recovers the panics, waits for all
other tasks to terminate, and then panics on the calling goroutine with one
of the recovered panic values, annotated with the stack trace of the
panicking task.
*/
package executor

import (
	"fmt"
)

// An Executor runs task(i) for every i in [0, n) and returns only when all
// invocations have terminated, returning the first error value different
// from nil that it observed.
type Executor interface {
	Run(n int, task func(i int) error) error
}

// Default returns a Pool with runtime.GOMAXPROCS(0) workers.
func Default() Executor {
	return NewPool(0)
}

func checkTasks(n int) {
	if n < 0 {
		panic(fmt.Sprintf("invalid number of tasks: %v", n))
	}
}
