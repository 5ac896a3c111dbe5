package executor

import (
	"runtime"
	"sync"

	"github.com/exascience/pardata/internal"
)

/*
ForkJoin runs tasks by recursive bisection of the task indices. The upper
half of each interval is run in a new goroutine, while the lower half is run
in the current goroutine, until single tasks remain.

At most Workers goroutines run tasks at the same time. When all of them are
busy, the upper half is run in the current goroutine after the lower half.
The zero value uses runtime.GOMAXPROCS(0) workers.

ForkJoin returns the left-most error value that is different from nil, and
re-panics with the left-most recovered panic value.
*/
type ForkJoin struct {
	Workers int
}

// Run implements the method of the Executor interface.
func (f ForkJoin) Run(n int, task func(i int) error) error {
	checkTasks(n)
	workers := f.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	// the calling goroutine is one of the workers
	tokens := make(chan struct{}, workers-1)
	p, err := forkJoin(0, n, task, tokens)
	if p != nil {
		panic(p)
	}
	return err
}

func forkJoin(low, high int, task func(int) error, tokens chan struct{}) (p interface{}, err error) {
	switch high - low {
	case 0:
		return
	case 1:
		defer func() {
			p = internal.WrapPanic(recover())
		}()
		err = task(low)
		return
	}
	half := low + (high-low)/2
	var p1 interface{}
	var err1 error
	select {
	case tokens <- struct{}{}:
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer func() {
				<-tokens
				wg.Done()
			}()
			p1, err1 = forkJoin(half, high, task, tokens)
		}()
		p, err = forkJoin(low, half, task, tokens)
		wg.Wait()
	default:
		p, err = forkJoin(low, half, task, tokens)
		p1, err1 = forkJoin(half, high, task, tokens)
	}
	if p == nil {
		p = p1
	}
	if err == nil {
		err = err1
	}
	return
}
