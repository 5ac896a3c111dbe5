/*
Package partition divides index ranges into sub-ranges for parallel
execution.

A range is split by recursive bisection. A sub-range is only bisected when
both halves still contain at least grain elements, so every sub-range of a
partition is at least grain elements long, unless the whole range is
shorter than grain to begin with.

The grain size balances dispatch overhead against load balance: a larger
grain reduces per-task overhead but worsens load balance, while a smaller
grain improves load balance at the cost of per-task overhead. To keep the
number of sub-ranges bounded rather than proportional to the size of the
range, the grain is raised when necessary so that at most maxBatches
sub-ranges are produced.
*/
package partition

import (
	"fmt"
	"runtime"

	"github.com/exascience/pardata"
	"github.com/exascience/pardata/internal"
)

// DefaultGrain is the minimum sub-range length used when no grain is
// configured.
const DefaultGrain = 0x1000

// DefaultMaxBatches returns the default bound on the number of
// sub-ranges, which takes runtime.GOMAXPROCS(0) into account.
func DefaultMaxBatches() int {
	return 4 * runtime.GOMAXPROCS(0)
}

// A Range is a half-open interval of indices, including Low but excluding
// High, with Low <= High.
type Range struct {
	Low, High int
}

// Len returns the number of indices in r.
func (r Range) Len() int {
	return r.High - r.Low
}

func (r Range) String() string {
	return fmt.Sprintf("%v:%v", r.Low, r.High)
}

/*
EffectiveGrain determines the grain that Split uses for a range of the
given size.

A grain below 1 is treated as 1. If maxBatches is > 0, the result is
max(grain, ceiling(size / maxBatches)), otherwise it is grain.
*/
func EffectiveGrain(size, grain, maxBatches int) int {
	if grain < 1 {
		grain = 1
	}
	if maxBatches > 0 {
		if g := internal.CeilDiv(size, maxBatches); g > grain {
			grain = g
		}
	}
	return grain
}

/*
Split divides the half-open interval from low to high into an ordered,
non-overlapping, contiguous sequence of sub-ranges whose concatenation is
exactly the original interval.

An empty interval yields an empty partition. An interval shorter than the
effective grain yields a single sub-range. See EffectiveGrain for how grain
and maxBatches are combined.

Split returns an error wrapping pardata.ErrInvalidRange if low < 0 or
high < low.
*/
func Split(low, high, grain, maxBatches int) ([]Range, error) {
	if err := pardata.CheckRange(low, high, high); err != nil {
		return nil, err
	}
	size := high - low
	if size == 0 {
		return nil, nil
	}
	grain = EffectiveGrain(size, grain, maxBatches)
	result := make([]Range, 0, internal.CeilDiv(size, grain))
	var recur func(int, int)
	recur = func(low, high int) {
		if high-low-grain < grain {
			result = append(result, Range{low, high})
			return
		}
		mid := low + (high-low)/2
		recur(low, mid)
		recur(mid, high)
	}
	recur(low, high)
	return result, nil
}
