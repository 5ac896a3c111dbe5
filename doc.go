// Package pardata provides data-parallel execution patterns for large
// in-memory numeric slices: elementwise generation and update, associative
// reduction, inclusive prefix scan, and filter-transform (stream compaction).
//
// Pardata provides the following subpackages:
//
// pardata/partition divides an index range into sub-ranges that are large
// enough to amortize dispatch overhead, but numerous enough to keep all
// workers busy.
//
// pardata/executor provides the substrate that runs one task per sub-range
// and blocks until all of them have terminated. A fixed worker pool, a
// recursive fork/join executor, and a sequential executor are available.
//
// pardata/parallel provides the data-parallel operations themselves: Map,
// Fill, Update, Saxpy, Reduce, Sum, SqrtDot, MinValue, Scan, FilterTransform,
// and MagicFilter.
//
// pardata/sequential provides sequential implementations of the concrete
// operations from pardata/parallel, for testing and debugging purposes.
//
// pardata/sync provides a concurrent append-only vector that workers grow in
// bulk, once per sub-range.
//
// pardata/timing provides an Observer that measures and logs the duration of
// each operation.
//
// Pardata has been influenced to various extents by ideas from Cilk and
// Threading Building Blocks. See
// http://supertech.csail.mit.edu/papers/steal.pdf for some theoretical
// background, and Blelloch's "Prefix Sums and Their Applications" for the
// two-phase scan.
package pardata
