// Package main provides the CLI entry point for ubench, an adaptive
// microbenchmark harness comparing list-reduce implementations.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/weiihann/ubench/bench"
	"github.com/weiihann/ubench/report"
	"github.com/weiihann/ubench/workload"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "ubench",
		Short: "Adaptive microbenchmark harness for list-reduce implementations",
		Long: `Ubench times several implementations of a list reduction under an
adaptive iteration-count protocol and prints a comparison table. Each case is
calibrated by doubling its iteration count until a measurement window is long
enough to trust, then measured over repeated trials.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd(logger))

	return root
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		size       int
		minTime    time.Duration
		maxIters   int
		initIters  int
		trials     int
		warmup     int
		outputJSON bool
		checkOrder bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the reduce benchmarks and print a comparison table",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBenchmark(logger, runConfig{
				size:       size,
				minTime:    minTime,
				maxIters:   maxIters,
				initIters:  initIters,
				trials:     trials,
				warmup:     warmup,
				outputJSON: outputJSON,
				checkOrder: checkOrder,
			})
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&size, "size", 1000,
		"Length of the list being reduced")
	flags.DurationVar(&minTime, "min-time", 5*time.Millisecond,
		"Stability threshold: minimum elapsed time per measurement")
	flags.IntVar(&maxIters, "max-iters", 1<<20,
		"Iteration count ceiling")
	flags.IntVar(&initIters, "init-iters", 1,
		"Iteration count the doubling protocol starts from")
	flags.IntVar(&trials, "trials", 5,
		"Fixed-iteration measurements per case after calibration")
	flags.IntVar(&warmup, "warmup", 1,
		"Warm-up invocations per case before calibration")
	flags.BoolVar(&outputJSON, "json", false,
		"Output results as JSON instead of table")
	flags.BoolVar(&checkOrder, "check-order", false,
		"Re-run cases in reverse order and log the mean deltas")

	return cmd
}

type runConfig struct {
	size       int
	minTime    time.Duration
	maxIters   int
	initIters  int
	trials     int
	warmup     int
	outputJSON bool
	checkOrder bool
}

func runBenchmark(logger *slog.Logger, cfg runConfig) error {
	if cfg.size <= 0 {
		return fmt.Errorf("size must be positive, got %d", cfg.size)
	}

	logger.Info("starting benchmark",
		slog.String("size", humanize.Comma(int64(cfg.size))),
		slog.Duration("min_time", cfg.minTime),
		slog.String("max_iters", humanize.Comma(int64(cfg.maxIters))),
		slog.Int("trials", cfg.trials),
	)

	xs := workload.MakeList(cfg.size)

	benchCfg := bench.Config{
		MinTime:           cfg.minTime,
		MaxIterations:     cfg.maxIters,
		InitialIterations: cfg.initIters,
		Trials:            cfg.trials,
		WarmupIterations:  cfg.warmup,
	}

	runner := bench.NewRunner(logger)
	if err := registerCases(runner, xs, false); err != nil {
		return err
	}

	results, err := runner.RunAll(benchCfg)
	if err != nil {
		return fmt.Errorf("run benchmarks: %w", err)
	}

	for _, r := range results {
		logger.Info("case complete",
			slog.String("case", r.Name),
			slog.String("iterations", humanize.Comma(int64(r.Iterations))),
			slog.Float64("mean_ms", r.MeanMs),
		)
	}

	if cfg.checkOrder {
		if err := checkOrderIndependence(logger, xs, benchCfg, results); err != nil {
			return fmt.Errorf("order check: %w", err)
		}
	}

	if cfg.outputJSON {
		if err := report.GenerateJSON(os.Stdout, results); err != nil {
			return fmt.Errorf("generate JSON report: %w", err)
		}
	} else {
		if err := report.Generate(os.Stdout, results); err != nil {
			return fmt.Errorf("generate report: %w", err)
		}
	}

	return nil
}

// registerCases registers the reduce implementations on r, optionally
// in reverse order. Case results must not depend on execution order,
// which is what --check-order probes.
func registerCases(r *bench.Runner, xs []int, reverse bool) error {
	cases := []struct {
		name string
		op   bench.Operation
	}{
		{"sum_loop", func() int { return workload.SumLoop(xs) }},
		{"fold", func() int { return workload.Fold(xs, 0, workload.Add) }},
		{"fold_curried", func() int {
			return workload.FoldCurried(xs, 0, workload.AddCurried)
		}},
	}

	if reverse {
		for i, j := 0, len(cases)-1; i < j; i, j = i+1, j-1 {
			cases[i], cases[j] = cases[j], cases[i]
		}
	}

	for _, c := range cases {
		if err := r.Register(c.name, c.op); err != nil {
			return fmt.Errorf("register %s: %w", c.name, err)
		}
	}

	return nil
}

// checkOrderIndependence runs the same cases in reverse registration
// order and logs the relative mean difference per case against the
// forward run. Differences well above measurement noise indicate
// cross-case interference.
func checkOrderIndependence(
	logger *slog.Logger,
	xs []int,
	cfg bench.Config,
	forward []bench.Result,
) error {
	runner := bench.NewRunner(logger)
	if err := registerCases(runner, xs, true); err != nil {
		return err
	}

	reversed, err := runner.RunAll(cfg)
	if err != nil {
		return err
	}

	byName := make(map[string]bench.Result, len(reversed))
	for _, r := range reversed {
		byName[r.Name] = r
	}

	for _, f := range forward {
		rev, ok := byName[f.Name]
		if !ok || f.MeanMs <= 0 {
			continue
		}

		delta := (rev.MeanMs - f.MeanMs) / f.MeanMs * 100

		logger.Info("order check",
			slog.String("case", f.Name),
			slog.Float64("forward_mean_ms", f.MeanMs),
			slog.Float64("reverse_mean_ms", rev.MeanMs),
			slog.Float64("delta_pct", delta),
		)
	}

	return nil
}
