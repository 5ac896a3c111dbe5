package pardata

import (
	"errors"
	"fmt"
)

type (
	// Integer is the set of integer element types.
	Integer interface {
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
			~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
	}

	// Float is the set of floating-point element types.
	Float interface {
		~float32 | ~float64
	}

	// Number is the set of element types supported by the arithmetic
	// operations. All of them are totally ordered (NaN aside), and have
	// an additive and a multiplicative identity.
	Number interface {
		Integer | Float
	}

	// An ErrRangeFunc is a function that receives a range from low to
	// high, with 0 <= low <= high, and returns an error value or nil.
	ErrRangeFunc func(low, high int) error
)

var (
	// ErrInvalidRange is returned when a range has low < 0 or high < low,
	// when it exceeds the bounds of a slice, or when slices that must
	// have equal lengths do not.
	ErrInvalidRange = errors.New("invalid range")

	// ErrEmptyInput is returned by operations that need at least one
	// element, such as MinValue.
	ErrEmptyInput = errors.New("empty input")
)

// CheckRange returns nil if 0 <= low <= high <= length, and an error
// wrapping ErrInvalidRange otherwise.
func CheckRange(low, high, length int) error {
	if (low < 0) || (high < low) || (high > length) {
		return fmt.Errorf("%w: %v:%v for length %v", ErrInvalidRange, low, high, length)
	}
	return nil
}

// A TaskError reports an error returned by a task function, together with
// the sub-range that the task was processing.
type TaskError struct {
	Low, High int
	Err       error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %v:%v: %v", e.Low, e.High, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

/*
An Observer is notified when an operation starts and when it ends. It is
meant for instrumentation such as timing, and must not influence the
operation it observes.

Begin and End are invoked on the goroutine that called the operation, so an
Observer only needs to be safe for concurrent use if operations are called
concurrently.
*/
type Observer interface {
	Begin(op string)
	End(op string, err error)
}
