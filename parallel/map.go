package parallel

import (
	"fmt"

	"github.com/exascience/pardata"
	"github.com/exascience/pardata/partition"
)

func mapRange[T any](cfg Config, low, high int, out []T, f func(i int) T) error {
	if err := pardata.CheckRange(low, high, len(out)); err != nil {
		return err
	}
	ranges, err := cfg.split(low, high)
	if err != nil {
		return err
	}
	return cfg.dispatch(ranges, func(_ int, r partition.Range) error {
		for i := r.Low; i < r.High; i++ {
			out[i] = f(i)
		}
		return nil
	})
}

// Map sets out[i] = f(i) for every i in the half-open interval from low to
// high, in parallel.
func Map[T any](cfg Config, low, high int, out []T, f func(i int) T) (err error) {
	defer cfg.observe("map")(&err)
	return mapRange(cfg, low, high, out, f)
}

// Transform sets out[i] = f(i, in[i]) for every i in the half-open
// interval from low to high, in parallel. The range must be valid for both
// slices.
func Transform[T, U any](cfg Config, low, high int, out []U, in []T, f func(i int, v T) U) (err error) {
	defer cfg.observe("transform")(&err)
	if err = pardata.CheckRange(low, high, len(in)); err != nil {
		return err
	}
	return mapRange(cfg, low, high, out, func(i int) U {
		return f(i, in[i])
	})
}

// Fill sets arr[i] = f(i) for every index of arr, in parallel, and returns
// arr.
func Fill[T any](cfg Config, arr []T, f func(i int) T) (_ []T, err error) {
	defer cfg.observe("fill")(&err)
	err = mapRange(cfg, 0, len(arr), arr, f)
	return arr, err
}

func update[T any](cfg Config, x, y []T, f func(x, y T) T) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: lengths %v and %v differ", pardata.ErrInvalidRange, len(x), len(y))
	}
	ranges, err := cfg.split(0, len(x))
	if err != nil {
		return err
	}
	return cfg.dispatch(ranges, func(_ int, r partition.Range) error {
		xs, ys := x[r.Low:r.High], y[r.Low:r.High]
		for i := range xs {
			xs[i] = f(xs[i], ys[i])
		}
		return nil
	})
}

// Update sets x[i] = f(x[i], y[i]) for every index of x, in parallel. The
// slices x and y must have equal lengths, otherwise Update returns an error
// wrapping pardata.ErrInvalidRange.
func Update[T any](cfg Config, x, y []T, f func(x, y T) T) (err error) {
	defer cfg.observe("update")(&err)
	return update(cfg, x, y, f)
}

// Saxpy sets x[i] = a*x[i] + y[i] for every index of x, in parallel. The
// slices x and y must have equal lengths, otherwise Saxpy returns an error
// wrapping pardata.ErrInvalidRange.
func Saxpy[T pardata.Number](cfg Config, a T, x, y []T) (err error) {
	defer cfg.observe("saxpy")(&err)
	return update(cfg, x, y, func(x, y T) T {
		return a*x + y
	})
}
