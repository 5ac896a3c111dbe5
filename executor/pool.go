package executor

import (
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/exascience/pardata/internal"
)

/*
A Pool runs tasks on a bounded set of worker goroutines.

Each Run starts at most Workers() workers, which repeatedly claim the next
unclaimed task index until all tasks have been claimed. Cheap tasks are
therefore balanced dynamically across workers, and a slow task only delays
the worker that runs it.

A Pool is safe for concurrent use by multiple goroutines.
*/
type Pool struct {
	workers int
}

// NewPool returns a Pool with the given number of workers. If workers is
// <= 0, runtime.GOMAXPROCS(0) is used instead.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{workers: workers}
}

// Workers returns the maximum number of worker goroutines per Run.
func (pool *Pool) Workers() int {
	return pool.workers
}

// Run implements the method of the Executor interface.
func (pool *Pool) Run(n int, task func(i int) error) error {
	checkTasks(n)
	if n == 0 {
		return nil
	}
	var (
		next     atomic.Int64
		mutex    sync.Mutex
		panicked interface{}
		g        errgroup.Group
	)
	call := func(i int) (err error) {
		defer func() {
			if p := recover(); p != nil {
				p = internal.WrapPanic(p)
				mutex.Lock()
				if panicked == nil {
					panicked = p
				}
				mutex.Unlock()
			}
		}()
		return task(i)
	}
	for w := min(pool.workers, n); w > 0; w-- {
		g.Go(func() (err error) {
			for i := int(next.Add(1) - 1); i < n; i = int(next.Add(1) - 1) {
				if e := call(i); (e != nil) && (err == nil) {
					err = e
				}
			}
			return
		})
	}
	err := g.Wait()
	if panicked != nil {
		panic(panicked)
	}
	return err
}
