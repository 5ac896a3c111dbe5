package parallel

import (
	"github.com/exascience/pardata"
	"github.com/exascience/pardata/partition"
)

/*
Scan replaces every element x[i] by the inclusive prefix sum
x[0] + ... + x[i], in place and in parallel, and returns the grand total,
which equals x[len(x)-1] after the call, or 0 for an empty slice.

Scan proceeds in two phases. First, the sum of each sub-range except the
last is computed in parallel, without writing to x. Then the exclusive
prefix sums of these partial sums give the carry-in of each sub-range.
Finally, each sub-range is walked again in parallel, starting from its
carry-in, writing the running sums into x in increasing index order.

Scan is not idempotent: a second call scans the already scanned slice.
*/
func Scan[T pardata.Number](cfg Config, x []T) (_ T, err error) {
	defer cfg.observe("scan")(&err)
	ranges, err := cfg.split(0, len(x))
	if err != nil || len(ranges) == 0 {
		return
	}
	carries := make([]slot[T], len(ranges))
	err = cfg.dispatch(ranges[:len(ranges)-1], func(k int, r partition.Range) error {
		var sum T
		for _, v := range x[r.Low:r.High] {
			sum += v
		}
		carries[k].value = sum
		return nil
	})
	if err != nil {
		return
	}
	var carry T
	for k := range carries {
		carry, carries[k].value = carry+carries[k].value, carry
	}
	err = cfg.dispatch(ranges, func(k int, r partition.Range) error {
		sum := carries[k].value
		xs := x[r.Low:r.High]
		for i, v := range xs {
			sum += v
			xs[i] = sum
		}
		return nil
	})
	if err != nil {
		return
	}
	return x[len(x)-1], nil
}
