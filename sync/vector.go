/*
Package sync provides synchronization primitives similar to the sync
package of Go's standard library, however here with a focus on parallel
performance rather than concurrency. So far, this package only provides a
concurrent append-only vector that parallel workers grow in bulk. For other
synchronization primitives, such as condition variables, mutual exclusion
locks, object pools, or atomic memory primitives, please use the standard
library.
*/
package sync

import (
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
)

type segment[T any] struct {
	seqNo int
	data  []T
}

/*
A Split is a portion of a Vector that can be individually locked. Growing
one split does not block growing any other split.
*/
type Split[T any] struct {
	sync.Mutex
	segments []segment[T]
}

/*
A Vector is a concurrent append-only sequence of values. Values are added
in bulk by GrowBy, one segment at a time, so that a parallel worker needs
only one synchronization event per batch of values rather than one per
value.

A Vector consists of several splits that can be individually locked; each
segment is stored in the split selected by its sequence number.

The zero Vector is not valid.
*/
type Vector[T any] struct {
	splits []Split[T]
	size   atomic.Int64
}

/*
NewVector returns a vector with size splits.

If size is <= 0, runtime.GOMAXPROCS(0) is used instead.
*/
func NewVector[T any](size int) *Vector[T] {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	return &Vector[T]{splits: make([]Split[T], size)}
}

/*
Split retrieves the split for a particular sequence number, which must be
>= 0.

The split must be locked/unlocked properly by user programs to safely
access its contents. In most cases, it is easier to use GrowBy, which
implicitly takes care of proper locking.
*/
func (v *Vector[T]) Split(seqNo int) *Split[T] {
	splits := v.splits
	return &splits[seqNo%len(splits)]
}

/*
GrowBy appends values to the vector as a single segment with the given
sequence number, which must be >= 0. Empty slices are ignored.

The vector takes ownership of values: the caller must not modify the slice
afterwards. GrowBy is safe to be invoked from different goroutines.
*/
func (v *Vector[T]) GrowBy(seqNo int, values []T) {
	if len(values) == 0 {
		return
	}
	split := v.Split(seqNo)
	split.Lock()
	split.segments = append(split.segments, segment[T]{seqNo, values})
	split.Unlock()
	v.size.Add(int64(len(values)))
}

// Len returns the number of values that have been added to the vector.
func (v *Vector[T]) Len() int {
	return int(v.size.Load())
}

func (v *Vector[T]) collect() (segments []segment[T]) {
	for i := range v.splits {
		split := &v.splits[i]
		split.Lock()
		segments = append(segments, split.segments...)
		split.Unlock()
	}
	slices.SortStableFunc(segments, func(a, b segment[T]) int {
		return a.seqNo - b.seqNo
	})
	return
}

/*
Slice returns a new slice with all values of the vector. Segments appear in
increasing order of their sequence numbers, and segments with equal
sequence numbers appear in the order in which they were added. The values
within a segment keep their order.

Slice does not necessarily correspond to any consistent snapshot if GrowBy
is invoked concurrently: no segment is lost or duplicated, but segments
added during the call may or may not be included.
*/
func (v *Vector[T]) Slice() []T {
	result := make([]T, 0, v.Len())
	v.Range(func(_ int, values []T) bool {
		result = append(result, values...)
		return true
	})
	return result
}

/*
Range calls f sequentially for each segment present in the vector, in the
same order as Slice. If f returns false, Range stops the iteration.
*/
func (v *Vector[T]) Range(f func(seqNo int, values []T) bool) {
	for _, s := range v.collect() {
		if !f(s.seqNo, s.data) {
			return
		}
	}
}
