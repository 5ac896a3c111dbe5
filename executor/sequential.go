package executor

import (
	"github.com/exascience/pardata/internal"
)

// Sequential runs tasks one after the other on the calling goroutine, in
// increasing index order. This is useful for testing and debugging.
type Sequential struct{}

// Run implements the method of the Executor interface.
func (Sequential) Run(n int, task func(i int) error) (err error) {
	checkTasks(n)
	var p interface{}
	for i := 0; i < n; i++ {
		func() {
			defer func() {
				if r := internal.WrapPanic(recover()); (r != nil) && (p == nil) {
					p = r
				}
			}()
			if nerr := task(i); err == nil {
				err = nerr
			}
		}()
	}
	if p != nil {
		panic(p)
	}
	return
}
