package main

import (
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/exascience/pardata/executor"
	"github.com/exascience/pardata/parallel"
	"github.com/exascience/pardata/timing"
)

type options struct {
	log2n      int
	grain      int
	maxBatches int
	workers    int
	executor   string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "pardemo",
		Short: "Run fill, saxpy, sqrtdot, minvalue, magicfilter and scan in parallel",
		Long: `pardemo fills x[i] = sin(i) and y[i] = cos(i), updates x = 0.5*x + y, and
prints sqrt(x·y), min(x), the number of values emitted by the magic filter,
and the sum of the inclusive prefix sums of x. Operation timings are logged
to standard error.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level, err := logrus.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			logger := logrus.New()
			logger.SetOutput(cmd.ErrOrStderr())
			logger.SetLevel(level)
			observer := timing.New(logger)
			cfg, err := opts.config(observer)
			if err != nil {
				return err
			}
			if err = run(cmd.OutOrStdout(), 1<<opts.log2n, cfg); err != nil {
				return err
			}
			logger.WithField("elapsed", observer.Total()).Info("all operations done")
			return nil
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&opts.log2n, "log2n", 26, "base-2 logarithm of the vector length")
	flags.IntVar(&opts.grain, "grain", 0, "minimum sub-range length (0 selects the default)")
	flags.IntVar(&opts.maxBatches, "max-batches", 0, "maximum number of sub-ranges (0 selects the default, < 0 removes the bound)")
	flags.IntVar(&opts.workers, "workers", 0, "number of pool or forkjoin workers (0 selects GOMAXPROCS)")
	flags.StringVar(&opts.executor, "executor", "pool", "executor: pool, forkjoin, or sequential")
	flags.StringVar(&opts.logLevel, "log-level", "info", "logrus level for timing output")
	return cmd
}

func (opts options) config(observer *timing.Observer) (cfg parallel.Config, err error) {
	if (opts.log2n < 0) || (opts.log2n > 40) {
		return cfg, fmt.Errorf("invalid --log2n %v", opts.log2n)
	}
	cfg.Grain = opts.grain
	cfg.MaxBatches = opts.maxBatches
	cfg.Observer = observer
	switch opts.executor {
	case "pool":
		cfg.Executor = executor.NewPool(opts.workers)
	case "forkjoin":
		cfg.Executor = executor.ForkJoin{Workers: opts.workers}
	case "sequential":
		cfg.Executor = executor.Sequential{}
	default:
		return cfg, fmt.Errorf("unknown executor %q", opts.executor)
	}
	return cfg, nil
}

func run(out io.Writer, n int, cfg parallel.Config) error {
	x, err := parallel.Fill(cfg, make([]float32, n), func(i int) float32 {
		return float32(math.Sin(float64(i)))
	})
	if err != nil {
		return err
	}
	y, err := parallel.Fill(cfg, make([]float32, n), func(i int) float32 {
		return float32(math.Cos(float64(i)))
	})
	if err != nil {
		return err
	}

	if err = parallel.Saxpy(cfg, 0.5, x, y); err != nil {
		return err
	}

	dot, err := parallel.SqrtDot(cfg, x, y)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, dot)

	minimum, err := parallel.MinValue(cfg, x)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, minimum)

	filtered, err := parallel.MagicFilter(cfg, x, y)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, len(filtered))

	if _, err = parallel.Scan(cfg, x); err != nil {
		return err
	}
	sum, err := parallel.Sum(cfg, x)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, sum)
	return nil
}
