package parallel

import (
	"fmt"
	"math"

	"golang.org/x/sys/cpu"

	"github.com/exascience/pardata"
	"github.com/exascience/pardata/partition"
)

// A slot holds the partial result of one sub-range. Slots are padded so
// that workers writing neighbouring slots do not share a cache line.
type slot[T any] struct {
	value T
	_     cpu.CacheLinePad
}

// combineTree combines partial results pairwise, as a balanced tree over
// partition order.
func combineTree[A any](slots []slot[A], combine func(x, y A) A) A {
	if len(slots) == 1 {
		return slots[0].value
	}
	half := len(slots) / 2
	return combine(combineTree(slots[:half], combine), combineTree(slots[half:], combine))
}

// reduceRange folds each sub-range of [low, high) with reduce, starting
// from seed, and combines the partial results with combine. It returns
// seed for an empty range.
func reduceRange[A any](
	cfg Config,
	low, high int,
	seed A,
	reduce func(acc A, low, high int) A,
	combine func(x, y A) A,
) (result A, err error) {
	ranges, err := cfg.split(low, high)
	if err != nil {
		return
	}
	if len(ranges) == 0 {
		return seed, nil
	}
	partials := make([]slot[A], len(ranges))
	err = cfg.dispatch(ranges, func(k int, r partition.Range) error {
		partials[k].value = reduce(seed, r.Low, r.High)
		return nil
	})
	if err != nil {
		return
	}
	return combineTree(partials, combine), nil
}

/*
RangeReduce receives a range and a range reducer reduce, divides the range
into sub-ranges, and invokes the range reducer for each of these sub-ranges
in parallel, starting from seed, covering the half-open interval from low to
high, including low but excluding high. The results of the range reducer
invocations are then combined pairwise with combine.

The same requirements on seed and combine as for Reduce apply. RangeReduce
returns seed for an empty range, and an error wrapping
pardata.ErrInvalidRange if low < 0 or high < low.
*/
func RangeReduce[A any](
	cfg Config,
	low, high int,
	seed A,
	reduce func(acc A, low, high int) A,
	combine func(x, y A) A,
) (_ A, err error) {
	defer cfg.observe("rangereduce")(&err)
	return reduceRange(cfg, low, high, seed, reduce, combine)
}

/*
Reduce folds x[i] and y[i] into an accumulator for every i in the
half-open interval from low to high, in parallel, and returns the combined
result. The range must be valid for both slices, which may have different
lengths.

Each sub-range is folded separately, starting from seed, and the results of
the sub-ranges are then combined pairwise with combine. Therefore seed must
be an identity of combine (or combine must be idempotent on seed), and
combine must be associative and commutative for the result to be
independent of partitioning. For floating-point sums, the result is
numerically close to, but not necessarily bit-identical with, a sequential
left-to-right fold.

Reduce returns seed for an empty range.
*/
func Reduce[T, A any](
	cfg Config,
	low, high int,
	x, y []T,
	seed A,
	fold func(acc A, x, y T) A,
	combine func(a, b A) A,
) (_ A, err error) {
	defer cfg.observe("reduce")(&err)
	if err = pardata.CheckRange(low, high, min(len(x), len(y))); err != nil {
		return
	}
	return reduceRange(cfg, low, high, seed,
		func(acc A, low, high int) A {
			for i := low; i < high; i++ {
				acc = fold(acc, x[i], y[i])
			}
			return acc
		},
		combine,
	)
}

func reduceSum[T pardata.Number](cfg Config, x []T) (T, error) {
	return reduceRange(cfg, 0, len(x), 0,
		func(acc T, low, high int) T {
			for _, v := range x[low:high] {
				acc += v
			}
			return acc
		},
		func(a, b T) T { return a + b },
	)
}

// Sum returns the sum of all elements of x, computed in parallel. It
// returns 0 for an empty slice.
func Sum[T pardata.Number](cfg Config, x []T) (_ T, err error) {
	defer cfg.observe("sum")(&err)
	return reduceSum(cfg, x)
}

/*
SqrtDot returns the square root of the dot product of x and y, computed in
parallel over the first min(len(x), len(y)) elements.

SqrtDot does not assume that the dot product is non-negative; it reports
whatever math.Sqrt returns, which is NaN for negative sums.
*/
func SqrtDot[T pardata.Float](cfg Config, x, y []T) (_ T, err error) {
	defer cfg.observe("sqrtdot")(&err)
	n := min(len(x), len(y))
	dot, err := reduceRange(cfg, 0, n, 0,
		func(acc T, low, high int) T {
			xs, ys := x[low:high], y[low:high]
			for i := range xs {
				acc += xs[i] * ys[i]
			}
			return acc
		},
		func(a, b T) T { return a + b },
	)
	if err != nil {
		return
	}
	return T(math.Sqrt(float64(dot))), nil
}

/*
MinValue returns the smallest element of x, computed in parallel. Every
sub-range is seeded with x[0].

MinValue returns an error wrapping pardata.ErrEmptyInput if x is empty.
*/
func MinValue[T pardata.Number](cfg Config, x []T) (_ T, err error) {
	defer cfg.observe("minvalue")(&err)
	if len(x) == 0 {
		err = fmt.Errorf("%w: minvalue of an empty slice", pardata.ErrEmptyInput)
		return
	}
	return reduceRange(cfg, 0, len(x), x[0],
		func(acc T, low, high int) T {
			for _, v := range x[low:high] {
				if v < acc {
					acc = v
				}
			}
			return acc
		},
		func(a, b T) T {
			if b < a {
				return b
			}
			return a
		},
	)
}
