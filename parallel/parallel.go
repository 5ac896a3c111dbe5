/*
Package parallel provides data-parallel operations over slices.

Each operation validates its range, divides it into sub-ranges with package
partition, and runs one task per sub-range on an executor from package
executor. Operations block until all tasks have terminated. Slices that are
only read must not be modified concurrently; slices that are written are
only written at indices within the operation's range, and each task writes
only to the indices of its own sub-range.

If a task function returns an error, the remaining tasks still run to
completion, and the operation returns the first error observed, wrapped in
a *pardata.TaskError. Operations are not transactional: writes performed by
tasks that succeeded are not rolled back.

If one or more task functions panic, the operation eventually panics with
one of the recovered panic values, after all other tasks have terminated.
*/
package parallel

import (
	"github.com/exascience/pardata"
	"github.com/exascience/pardata/executor"
	"github.com/exascience/pardata/partition"
)

/*
A Config determines how operations divide and dispatch their work.

The zero Config is valid and uses reasonable defaults.
*/
type Config struct {
	// Grain is the minimum sub-range length. A larger grain reduces
	// dispatch overhead but worsens load balance; a smaller grain improves
	// load balance at the cost of per-task overhead. If Grain is 0,
	// partition.DefaultGrain is used. Values below 0 are treated as 1.
	Grain int

	// MaxBatches bounds the number of sub-ranges per operation. If
	// MaxBatches is 0, partition.DefaultMaxBatches() is used. Values below
	// 0 remove the bound.
	MaxBatches int

	// Executor runs the tasks. If Executor is nil, executor.Default() is
	// used.
	Executor executor.Executor

	// Observer, if not nil, is notified when an operation begins and ends.
	Observer pardata.Observer
}

// DefaultConfig returns a Config with all defaults filled in.
func DefaultConfig() Config {
	return Config{
		Grain:      partition.DefaultGrain,
		MaxBatches: partition.DefaultMaxBatches(),
		Executor:   executor.Default(),
	}
}

func (cfg Config) grain() int {
	switch {
	case cfg.Grain == 0:
		return partition.DefaultGrain
	case cfg.Grain < 0:
		return 1
	default:
		return cfg.Grain
	}
}

func (cfg Config) maxBatches() int {
	switch {
	case cfg.MaxBatches == 0:
		return partition.DefaultMaxBatches()
	case cfg.MaxBatches < 0:
		return 0
	default:
		return cfg.MaxBatches
	}
}

func (cfg Config) executor() executor.Executor {
	if cfg.Executor == nil {
		return executor.Default()
	}
	return cfg.Executor
}

// observe notifies the observer that op begins, and returns a function
// that notifies it that op ended with the error that err points to.
func (cfg Config) observe(op string) func(err *error) {
	if cfg.Observer == nil {
		return func(*error) {}
	}
	cfg.Observer.Begin(op)
	return func(err *error) {
		cfg.Observer.End(op, *err)
	}
}

func (cfg Config) split(low, high int) ([]partition.Range, error) {
	return partition.Split(low, high, cfg.grain(), cfg.maxBatches())
}

// dispatch runs f for each sub-range, passing its index in ranges along.
func (cfg Config) dispatch(ranges []partition.Range, f func(k int, r partition.Range) error) error {
	return cfg.executor().Run(len(ranges), func(k int) error {
		r := ranges[k]
		if err := f(k, r); err != nil {
			return &pardata.TaskError{Low: r.Low, High: r.High, Err: err}
		}
		return nil
	})
}

/*
Range receives a range and a range function f, divides the range into
sub-ranges, and invokes the range function for each of these sub-ranges in
parallel, covering the half-open interval from low to high, including low
but excluding high.

Range returns an error wrapping pardata.ErrInvalidRange if low < 0 or
high < low, without invoking f.
*/
func Range(cfg Config, low, high int, f pardata.ErrRangeFunc) (err error) {
	defer cfg.observe("range")(&err)
	ranges, err := cfg.split(low, high)
	if err != nil {
		return err
	}
	return cfg.dispatch(ranges, func(_ int, r partition.Range) error {
		return f(r.Low, r.High)
	})
}
