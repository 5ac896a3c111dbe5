// Package sequential provides sequential implementations of the operations
// provided by the parallel package. This is useful for testing and
// debugging.
//
// It is not recommended to use the implementations of this package for any
// other purpose, because the parallel package with an
// executor.Sequential{} executor behaves the same and is equally fast.
package sequential

import (
	"fmt"
	"math"

	"github.com/exascience/pardata"
)

// Fill sets arr[i] = f(i) for every index of arr and returns arr.
func Fill[T any](arr []T, f func(i int) T) []T {
	for i := range arr {
		arr[i] = f(i)
	}
	return arr
}

// Saxpy sets x[i] = a*x[i] + y[i] for every index of x. The slices x and y
// must have equal lengths.
func Saxpy[T pardata.Number](a T, x, y []T) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: lengths %v and %v differ", pardata.ErrInvalidRange, len(x), len(y))
	}
	for i := range x {
		x[i] = a*x[i] + y[i]
	}
	return nil
}

// Reduce folds x[i] and y[i] into seed from left to right, for every i in
// the half-open interval from low to high.
func Reduce[T, A any](low, high int, x, y []T, seed A, fold func(acc A, x, y T) A) (A, error) {
	if err := pardata.CheckRange(low, high, min(len(x), len(y))); err != nil {
		return seed, err
	}
	for i := low; i < high; i++ {
		seed = fold(seed, x[i], y[i])
	}
	return seed, nil
}

// Sum returns the sum of all elements of x.
func Sum[T pardata.Number](x []T) (sum T) {
	for _, v := range x {
		sum += v
	}
	return
}

// SqrtDot returns the square root of the dot product of the first
// min(len(x), len(y)) elements of x and y.
func SqrtDot[T pardata.Float](x, y []T) T {
	var dot T
	for i := 0; i < min(len(x), len(y)); i++ {
		dot += x[i] * y[i]
	}
	return T(math.Sqrt(float64(dot)))
}

// MinValue returns the smallest element of x, or an error wrapping
// pardata.ErrEmptyInput if x is empty.
func MinValue[T pardata.Number](x []T) (result T, err error) {
	if len(x) == 0 {
		err = fmt.Errorf("%w: minvalue of an empty slice", pardata.ErrEmptyInput)
		return
	}
	result = x[0]
	for _, v := range x[1:] {
		if v < result {
			result = v
		}
	}
	return
}

// MagicFilter applies the same emission rule as parallel.MagicFilter, in
// index order.
func MagicFilter[T pardata.Float](x, y []T) (result []T) {
	result = []T{}
	for i := 0; i < min(len(x), len(y)); i++ {
		if x[i] > y[i] {
			result = append(result, x[i])
		} else if y[i] > x[i] && y[i] > 0.5 {
			result = append(result, y[i], x[i]*y[i])
		}
	}
	return
}

// Scan replaces every element x[i] by the inclusive prefix sum
// x[0] + ... + x[i], and returns the grand total.
func Scan[T pardata.Number](x []T) (total T) {
	for i, v := range x {
		total += v
		x[i] = total
	}
	return
}
