package parallel

import (
	"github.com/exascience/pardata"
	"github.com/exascience/pardata/partition"
	psync "github.com/exascience/pardata/sync"
)

func filterTransform[T, U any](cfg Config, low, high int, x, y []T, perElement int, emit func(dst []U, i int, x, y T) []U) ([]U, error) {
	if err := pardata.CheckRange(low, high, min(len(x), len(y))); err != nil {
		return nil, err
	}
	ranges, err := cfg.split(low, high)
	if err != nil {
		return nil, err
	}
	result := psync.NewVector[U](0)
	err = cfg.dispatch(ranges, func(k int, r partition.Range) error {
		buf := make([]U, 0, perElement*r.Len())
		for i := r.Low; i < r.High; i++ {
			buf = emit(buf, i, x[i], y[i])
		}
		result.GrowBy(k, buf)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result.Slice(), nil
}

/*
FilterTransform passes i, x[i] and y[i] to emit for every i in the
half-open interval from low to high, in parallel, and returns all emitted values in a
single slice. The emit function appends zero or more values to dst and
returns the extended slice. The range must be valid for both slices, which may have
different lengths.

Each task collects the emissions of its sub-range in a private buffer, and
appends that buffer to the shared result in one step. The values emitted
for a single index keep their order, and so do the emissions of the indices
of a single sub-range. The result lists sub-ranges in index order, so
repeated calls with the same inputs and Config return the same result.
*/
func FilterTransform[T, U any](cfg Config, low, high int, x, y []T, emit func(dst []U, i int, x, y T) []U) (_ []U, err error) {
	defer cfg.observe("filtertransform")(&err)
	return filterTransform(cfg, low, high, x, y, 1, emit)
}

/*
MagicFilter processes the first min(len(x), len(y)) elements of x and y in
parallel. For each index i, it emits x[i] if x[i] > y[i]; otherwise it
emits y[i] followed by x[i]*y[i] if y[i] > x[i] and y[i] > 0.5; otherwise
it emits nothing. All comparisons are strict, so equal values and
y[i] == 0.5 emit nothing.
*/
func MagicFilter[T pardata.Float](cfg Config, x, y []T) (_ []T, err error) {
	defer cfg.observe("magicfilter")(&err)
	return filterTransform[T, T](cfg, 0, min(len(x), len(y)), x, y, 2, magic[T])
}

func magic[T pardata.Float](dst []T, _ int, x, y T) []T {
	if x > y {
		return append(dst, x)
	}
	if y > x && y > 0.5 {
		return append(dst, y, x*y)
	}
	return dst
}
