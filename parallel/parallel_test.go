package parallel

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/exascience/pardata"
	"github.com/exascience/pardata/executor"
	"github.com/exascience/pardata/sequential"
)

// configs returns configurations covering all executors and a range of
// partition granularities.
func configs() map[string]Config {
	result := map[string]Config{"Zero": {}}
	execs := map[string]executor.Executor{
		"Pool":       executor.NewPool(4),
		"ForkJoin":   executor.ForkJoin{},
		"Sequential": executor.Sequential{},
	}
	for name, exec := range execs {
		result[name+"/Grain1"] = Config{Grain: 1, MaxBatches: -1, Executor: exec}
		result[name+"/Grain7"] = Config{Grain: 7, Executor: exec}
		result[name+"/Grain64/MaxBatches3"] = Config{Grain: 64, MaxBatches: 3, Executor: exec}
	}
	return result
}

var sizes = []int{0, 1, 2, 7, 100, 1000, 10007}

func randomFloats(r *rand.Rand, n int) []float64 {
	result := make([]float64, n)
	for i := range result {
		result[i] = r.Float64()*2 - 1
	}
	return result
}

// randomIntegralFloats returns floats whose sums are exact.
func randomIntegralFloats(r *rand.Rand, n int) []float64 {
	result := make([]float64, n)
	for i := range result {
		result[i] = float64(r.Intn(2001) - 1000)
	}
	return result
}

func TestMap(t *testing.T) {
	f := func(i int) int { return 3*i + 1 }
	for name, cfg := range configs() {
		t.Run(name, func(t *testing.T) {
			for _, n := range sizes {
				arr, err := Fill(cfg, make([]int, n), f)
				require.NoError(t, err)
				for i, v := range arr {
					if v != f(i) {
						t.Fatalf("n=%v: arr[%v] == %v", n, i, v)
					}
				}
			}

			out := make([]int, 20)
			require.NoError(t, Map(cfg, 5, 15, out, f))
			for i, v := range out {
				want := 0
				if i >= 5 && i < 15 {
					want = f(i)
				}
				assert.Equal(t, want, v, "out[%v]", i)
			}
		})
	}
}

func TestTransform(t *testing.T) {
	in := []float64{1, 2, 3, 4, 5}
	out := make([]string, 5)
	err := Transform(Config{Grain: 1}, 1, 4, out, in, func(i int, v float64) string {
		return fmt.Sprint(i, ":", v)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"", "1:2", "2:3", "3:4", ""}, out)

	err = Transform(Config{}, 0, 5, out, in[:3], func(i int, v float64) string { return "" })
	assert.True(t, errors.Is(err, pardata.ErrInvalidRange))
}

func TestSaxpy(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for name, cfg := range configs() {
		t.Run(name, func(t *testing.T) {
			for _, n := range sizes {
				x, y := randomFloats(r, n), randomFloats(r, n)
				old := append([]float64(nil), x...)
				require.NoError(t, Saxpy(cfg, 0.5, x, y))
				for i := range x {
					if x[i] != 0.5*old[i]+y[i] {
						t.Fatalf("n=%v: x[%v] == %v", n, i, x[i])
					}
				}
			}
		})
	}
}

func TestUpdateLengthMismatch(t *testing.T) {
	x := []int{1, 2, 3}
	err := Saxpy(Config{}, 2, x, []int{1, 2})
	assert.True(t, errors.Is(err, pardata.ErrInvalidRange))
	assert.Equal(t, []int{1, 2, 3}, x)

	err = Update(Config{}, x, []int{1, 1, 1}, func(x, y int) int { return x - y })
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, x)
}

func TestSqrtDot(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for name, cfg := range configs() {
		t.Run(name, func(t *testing.T) {
			for _, n := range sizes {
				x, y := randomFloats(r, n+3), randomFloats(r, n)
				for i := range x[:n] {
					// keep the dot product positive
					y[i] = math.Abs(y[i]) * math.Copysign(1, x[i])
				}
				got, err := SqrtDot(cfg, x, y)
				require.NoError(t, err)
				want := math.Sqrt(floats.Dot(x[:n], y))
				if n == 0 {
					assert.Equal(t, 0.0, got)
					continue
				}
				assert.InEpsilon(t, want, got, 1e-3, "n=%v", n)
			}
		})
	}
}

func TestSqrtDotNegative(t *testing.T) {
	got, err := SqrtDot(Config{}, []float32{-1, -2}, []float32{1, 1, 1})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(float64(got)))
}

func TestReduceIntegersExact(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for name, cfg := range configs() {
		t.Run(name, func(t *testing.T) {
			for _, n := range sizes {
				x := make([]int64, n)
				y := make([]int64, n+5)
				for i := range x {
					x[i], y[i] = r.Int63n(1000)-500, r.Int63n(1000)-500
				}
				fold := func(acc, x, y int64) int64 { return acc + x*y }
				got, err := Reduce(cfg, 0, n, x, y, 0, fold, func(a, b int64) int64 { return a + b })
				require.NoError(t, err)
				want, err := sequential.Reduce(0, n, x, y, 0, fold)
				require.NoError(t, err)
				assert.Equal(t, want, got, "n=%v", n)
			}
		})
	}
}

func TestReduceInvalidRange(t *testing.T) {
	x, y := []int{1, 2, 3}, []int{1, 2}
	add := func(a, b int) int { return a + b }
	fold := func(acc, x, y int) int { return acc + x + y }
	for _, c := range [][2]int{{0, 3}, {-1, 1}, {2, 1}} {
		_, err := Reduce(Config{}, c[0], c[1], x, y, 0, fold, add)
		assert.True(t, errors.Is(err, pardata.ErrInvalidRange), "range %v", c)
	}
	got, err := Reduce(Config{}, 1, 1, x, y, 42, fold, add)
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestSum(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	for name, cfg := range configs() {
		t.Run(name, func(t *testing.T) {
			for _, n := range sizes {
				x := randomIntegralFloats(r, n)
				got, err := Sum(cfg, x)
				require.NoError(t, err)
				assert.Equal(t, floats.Sum(x), got, "n=%v", n)
			}
		})
	}
}

func TestHugeGrain(t *testing.T) {
	cfg := Config{Grain: math.MaxInt, MaxBatches: -1}
	x := []int{1, 2, 3, 4, 5}
	total, err := Scan(cfg, x)
	require.NoError(t, err)
	assert.Equal(t, 15, total)
	assert.Equal(t, []int{1, 3, 6, 10, 15}, x)
	sum, err := Sum(cfg, x)
	require.NoError(t, err)
	assert.Equal(t, 35, sum)
}

func TestMinValue(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	for name, cfg := range configs() {
		t.Run(name, func(t *testing.T) {
			for _, n := range sizes[1:] {
				x := randomFloats(r, n)
				got, err := MinValue(cfg, x)
				require.NoError(t, err)
				assert.Equal(t, floats.Min(x), got, "n=%v", n)
			}
			_, err := MinValue(cfg, []float32{})
			assert.True(t, errors.Is(err, pardata.ErrEmptyInput))
		})
	}
}

func TestMinValueScenario(t *testing.T) {
	got, err := MinValue(Config{Grain: 1, MaxBatches: -1}, []int{3, 1, 4, 1, 5})
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestScan(t *testing.T) {
	r := rand.New(rand.NewSource(6))
	for name, cfg := range configs() {
		t.Run(name, func(t *testing.T) {
			for _, n := range sizes {
				x := randomIntegralFloats(r, n)
				want := floats.CumSum(make([]float64, n), x)
				total, err := Scan(cfg, x)
				require.NoError(t, err)
				require.Equal(t, want, x, "n=%v", n)
				if n == 0 {
					assert.Equal(t, 0.0, total)
				} else {
					assert.Equal(t, x[n-1], total)
				}
			}
		})
	}
}

func TestScanFloatTotal(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	x := randomFloats(r, 100003)
	want := append([]float64(nil), x...)
	sequential.Scan(want)
	total, err := Scan(Config{Grain: 100}, x)
	require.NoError(t, err)
	assert.Equal(t, x[len(x)-1], total)
	for i := range x {
		if math.Abs(x[i]-want[i]) > 1e-6 {
			t.Fatalf("x[%v] == %v, want %v", i, x[i], want[i])
		}
	}
}

func TestScanScenario(t *testing.T) {
	for name, cfg := range configs() {
		t.Run(name, func(t *testing.T) {
			x := []int{1, 2, 3, 4}
			total, err := Scan(cfg, x)
			require.NoError(t, err)
			assert.Equal(t, []int{1, 3, 6, 10}, x)
			assert.Equal(t, 10, total)
		})
	}
}

func TestMagicFilter(t *testing.T) {
	r := rand.New(rand.NewSource(8))
	for name, cfg := range configs() {
		t.Run(name, func(t *testing.T) {
			for _, n := range sizes {
				x, y := randomFloats(r, n), randomFloats(r, n+2)
				got, err := MagicFilter(cfg, x, y)
				require.NoError(t, err)
				want := sequential.MagicFilter(x, y)
				assert.ElementsMatch(t, want, got, "n=%v", n)
				assert.Len(t, got, len(want))
			}
		})
	}
}

func TestMagicFilterScenario(t *testing.T) {
	got, err := MagicFilter(Config{Grain: 1, MaxBatches: -1}, []float64{1, 0}, []float64{0, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 0}, got)
}

func TestMagicFilterBoundaries(t *testing.T) {
	x := []float64{0.5, 0.2, 0.3, 0.6}
	y := []float64{0.5, 0.5, 0.5, 0.7}
	got, err := MagicFilter(Config{Grain: 1}, x, y)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.7, 0.42}, got, 1e-12)
}

func TestFilterTransformPairOrder(t *testing.T) {
	// every index emits a pair, which must never be reversed
	const n = 5000
	x := make([]float32, n)
	y := make([]float32, n)
	for i := range y {
		x[i] = -float32(i)
		y[i] = 1 + float32(i)
	}
	for name, cfg := range configs() {
		t.Run(name, func(t *testing.T) {
			got, err := MagicFilter(cfg, x, y)
			require.NoError(t, err)
			require.Len(t, got, 2*n)
			for k := 0; k < len(got); k += 2 {
				i := int(got[k]) - 1
				if got[k+1] != x[i]*y[i] {
					t.Fatalf("pair at %v: (%v, %v)", k, got[k], got[k+1])
				}
			}
		})
	}
}

func TestFilterTransform(t *testing.T) {
	x := []int{1, 2, 3, 4, 5, 6, 7, 8}
	y := []int{8, 7, 6, 5, 4, 3, 2}
	emit := func(dst []string, _ int, x, y int) []string {
		for k := 0; k < x%3; k++ {
			dst = append(dst, fmt.Sprint(x, "-", y, "-", k))
		}
		return dst
	}
	got, err := FilterTransform(Config{Grain: 2}, 1, 7, x, y, emit)
	require.NoError(t, err)
	assert.Equal(t, []string{"2-7-0", "2-7-1", "4-5-0", "5-4-0", "5-4-1", "7-2-0"}, got)

	_, err = FilterTransform(Config{}, 0, 8, x, y, emit)
	assert.True(t, errors.Is(err, pardata.ErrInvalidRange))
}

func TestFilterTransformIndex(t *testing.T) {
	const n = 1000
	x := make([]int, n)
	y := make([]int, n)
	// keep every third index, and emit it together with its value
	emit := func(dst []int, i, x, _ int) []int {
		if i%3 == 0 {
			dst = append(dst, i, x)
		}
		return dst
	}
	for i := range x {
		x[i] = 2 * i
	}
	for name, cfg := range configs() {
		t.Run(name, func(t *testing.T) {
			got, err := FilterTransform(cfg, 10, n, x, y, emit)
			require.NoError(t, err)
			var want []int
			for i := 12; i < n; i += 3 {
				want = append(want, i, 2*i)
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestIdempotence(t *testing.T) {
	r := rand.New(rand.NewSource(9))
	x, y := randomFloats(r, 20000), randomFloats(r, 20000)
	cfg := Config{Grain: 100}
	sqrt1, err := SqrtDot(cfg, x, y)
	require.NoError(t, err)
	min1, err := MinValue(cfg, x)
	require.NoError(t, err)
	filtered1, err := MagicFilter(cfg, x, y)
	require.NoError(t, err)
	arr1, err := Fill(cfg, make([]float64, 100), func(i int) float64 { return x[i] })
	require.NoError(t, err)
	for k := 0; k < 3; k++ {
		sqrt2, err := SqrtDot(cfg, x, y)
		require.NoError(t, err)
		assert.Equal(t, sqrt1, sqrt2)
		min2, err := MinValue(cfg, x)
		require.NoError(t, err)
		assert.Equal(t, min1, min2)
		filtered2, err := MagicFilter(cfg, x, y)
		require.NoError(t, err)
		assert.Equal(t, filtered1, filtered2)
		arr2, err := Fill(cfg, make([]float64, 100), func(i int) float64 { return x[i] })
		require.NoError(t, err)
		assert.Equal(t, arr1, arr2)
	}
}

func TestRangeTaskError(t *testing.T) {
	failure := errors.New("failure")
	for name, cfg := range configs() {
		if cfg.Executor == nil {
			continue
		}
		t.Run(name, func(t *testing.T) {
			const n = 1000
			var visited int64
			err := Range(cfg, 0, n, func(low, high int) error {
				atomic.AddInt64(&visited, int64(high-low))
				if low <= 500 && 500 < high {
					return failure
				}
				return nil
			})
			require.Error(t, err)
			assert.True(t, errors.Is(err, failure))
			var taskErr *pardata.TaskError
			require.True(t, errors.As(err, &taskErr))
			assert.True(t, taskErr.Low <= 500 && 500 < taskErr.High)
			assert.Equal(t, int64(n), atomic.LoadInt64(&visited))
		})
	}
}

func TestRangeInvalid(t *testing.T) {
	called := false
	err := Range(Config{}, 3, 2, func(int, int) error {
		called = true
		return nil
	})
	assert.True(t, errors.Is(err, pardata.ErrInvalidRange))
	assert.False(t, called)

	err = Map(Config{}, 0, 4, make([]int, 3), func(i int) int { return i })
	assert.True(t, errors.Is(err, pardata.ErrInvalidRange))
}

func TestRangePanics(t *testing.T) {
	var visited int64
	assert.Panics(t, func() {
		_ = Range(Config{Grain: 10, MaxBatches: -1}, 0, 1000, func(low, high int) error {
			atomic.AddInt64(&visited, int64(high-low))
			if low == 0 {
				panic("boom")
			}
			return nil
		})
	})
	assert.Equal(t, int64(1000), atomic.LoadInt64(&visited))
}

type recorder struct {
	events []string
}

func (r *recorder) Begin(op string) {
	r.events = append(r.events, "begin "+op)
}

func (r *recorder) End(op string, err error) {
	r.events = append(r.events, fmt.Sprint("end ", op, " ", err != nil))
}

func TestObserver(t *testing.T) {
	rec := &recorder{}
	cfg := Config{Observer: rec}
	x, err := Fill(cfg, make([]float64, 10), func(i int) float64 { return float64(i) })
	require.NoError(t, err)
	y := make([]float64, 10)
	require.NoError(t, Saxpy(cfg, 2, x, y))
	_, err = SqrtDot(cfg, x, y)
	require.NoError(t, err)
	_, err = MinValue(cfg, y[:0])
	require.Error(t, err)
	_, err = MagicFilter(cfg, x, y)
	require.NoError(t, err)
	_, err = Scan(cfg, x)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"begin fill", "end fill false",
		"begin saxpy", "end saxpy false",
		"begin sqrtdot", "end sqrtdot false",
		"begin minvalue", "end minvalue true",
		"begin magicfilter", "end magicfilter false",
		"begin scan", "end scan false",
	}, rec.events)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, Config{}.grain(), cfg.grain())
	assert.Equal(t, Config{}.maxBatches(), cfg.maxBatches())
	assert.NotNil(t, cfg.Executor)
	assert.Equal(t, 1, Config{Grain: -3}.grain())
	assert.Equal(t, 0, Config{MaxBatches: -1}.maxBatches())
}

func TestPartialsAreCombinedInOrder(t *testing.T) {
	// concatenation is associative but not commutative
	x := make([]int, 100)
	for i := range x {
		x[i] = i
	}
	cfg := Config{Grain: 3, MaxBatches: -1, Executor: executor.NewPool(8)}
	got, err := Reduce(cfg, 0, len(x), x, x, []int(nil),
		func(acc []int, x, _ int) []int { return append(acc, x) },
		func(a, b []int) []int { return append(append([]int(nil), a...), b...) },
	)
	require.NoError(t, err)
	assert.True(t, sort.IntsAreSorted(got))
	assert.Equal(t, x, got)
}
