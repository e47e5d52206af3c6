// Package bench implements an adaptive microbenchmark runner. Cases
// are registered by name on a Runner instance and executed
// sequentially; each case is calibrated by doubling its iteration
// count until a single measurement exceeds a stability threshold, then
// measured over a fixed number of trials.
package bench

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// Sentinel errors returned by Register and RunAll. Callers match them
// with errors.Is; the wrapped message carries the case name.
var (
	ErrDuplicateCase = errors.New("duplicate case name")
	ErrEmptyName     = errors.New("empty case name")
	ErrNoCases       = errors.New("no cases registered")
	ErrCasePanicked  = errors.New("case panicked")
)

// Operation is a zero-argument function under measurement. The return
// value is accumulated into the runner's sink so the call cannot be
// eliminated by the compiler.
type Operation func() int

// Case pairs a unique name with the operation to time.
type Case struct {
	Name string
	Op   Operation
}

// Config holds the measurement parameters for a run. Zero values fall
// back to the defaults documented on each field.
type Config struct {
	// MinTime is the stability threshold: calibration doubles the
	// iteration count until one measurement takes at least this long.
	// Default 5ms.
	MinTime time.Duration

	// MaxIterations caps the iteration count. A case that never
	// reaches MinTime before the cap is measured at the cap and its
	// Result is flagged LowConfidence. Default 1<<20.
	MaxIterations int

	// InitialIterations is the calibration starting point. Default 1.
	InitialIterations int

	// Trials is how many fixed-iteration measurements feed the
	// statistics after calibration. Default 5.
	Trials int

	// WarmupIterations is how many times the operation runs before
	// calibration starts. Default 1; negative disables warm-up.
	WarmupIterations int
}

func (c Config) withDefaults() Config {
	if c.MinTime <= 0 {
		c.MinTime = 5 * time.Millisecond
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = 1 << 20
	}
	if c.InitialIterations <= 0 {
		c.InitialIterations = 1
	}
	if c.Trials <= 0 {
		c.Trials = 5
	}
	switch {
	case c.WarmupIterations == 0:
		c.WarmupIterations = 1
	case c.WarmupIterations < 0:
		c.WarmupIterations = 0
	}

	return c
}

// Runner owns an ordered set of registered cases and executes them.
// It is not safe for concurrent use; measurements are strictly
// sequential to keep wall-clock comparisons between cases valid.
type Runner struct {
	cases  []Case
	byName map[string]struct{}
	logger *slog.Logger
	sink   int
}

// NewRunner creates an empty Runner that logs through logger.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{
		byName: make(map[string]struct{}),
		logger: logger.With(slog.String("component", "bench")),
	}
}

// Register appends a case to the run order. The name must be non-empty
// and unique; on error the registered sequence is left unchanged.
func (r *Runner) Register(name string, op Operation) error {
	if name == "" {
		return ErrEmptyName
	}

	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateCase, name)
	}

	r.byName[name] = struct{}{}
	r.cases = append(r.cases, Case{Name: name, Op: op})

	return nil
}

// Cases returns the registered case names in registration order.
func (r *Runner) Cases() []string {
	names := make([]string, len(r.cases))
	for i, c := range r.cases {
		names[i] = c.Name
	}

	return names
}

// RunAll measures every registered case in registration order and
// returns one Result per case. A panicking operation aborts the whole
// run with ErrCasePanicked; no partial results are returned.
func (r *Runner) RunAll(cfg Config) ([]Result, error) {
	if len(r.cases) == 0 {
		return nil, ErrNoCases
	}

	cfg = cfg.withDefaults()

	results := make([]Result, 0, len(r.cases))

	for _, c := range r.cases {
		result, err := r.runCase(c, cfg)
		if err != nil {
			return nil, fmt.Errorf("case %q: %w", c.Name, err)
		}

		results = append(results, result)
	}

	r.logger.Debug("run complete", slog.Int("sink", r.sink))

	return results, nil
}

func (r *Runner) runCase(c Case, cfg Config) (Result, error) {
	if cfg.WarmupIterations > 0 {
		if _, err := r.measure(c.Op, cfg.WarmupIterations); err != nil {
			return Result{}, err
		}
	}

	iters, lowConfidence, err := r.calibrate(c, cfg)
	if err != nil {
		return Result{}, err
	}

	samples := make([]float64, cfg.Trials)

	for i := range samples {
		elapsed, err := r.measure(c.Op, iters)
		if err != nil {
			return Result{}, err
		}

		msPerOp := float64(elapsed.Nanoseconds()) / float64(iters) / 1e6
		samples[i] = msPerOp
	}

	mean, sdev, stderr := summarize(samples)

	r.logger.Info("case measured",
		slog.String("case", c.Name),
		slog.Int("iterations", iters),
		slog.Float64("mean_ms", mean),
		slog.Bool("low_confidence", lowConfidence),
	)

	return Result{
		Name:          c.Name,
		MeanMs:        mean,
		ErrorMs:       stderr,
		SdevMs:        sdev,
		Unit:          Unit,
		Iterations:    iters,
		Trials:        cfg.Trials,
		LowConfidence: lowConfidence,
		SamplesMs:     samples,
	}, nil
}

// calibrate searches for an iteration count whose total elapsed time
// meets cfg.MinTime, doubling from cfg.InitialIterations. It returns
// the chosen count and whether the ceiling was hit first.
func (r *Runner) calibrate(c Case, cfg Config) (int, bool, error) {
	iters := cfg.InitialIterations
	if iters > cfg.MaxIterations {
		iters = cfg.MaxIterations
	}

	for {
		elapsed, err := r.measure(c.Op, iters)
		if err != nil {
			return 0, false, err
		}

		if elapsed >= cfg.MinTime {
			return iters, false, nil
		}

		if iters >= cfg.MaxIterations {
			r.logger.Warn("iteration ceiling reached below threshold",
				slog.String("case", c.Name),
				slog.Int("iterations", iters),
				slog.Duration("elapsed", elapsed),
				slog.Duration("min_time", cfg.MinTime),
			)

			return iters, true, nil
		}

		iters *= 2
		if iters > cfg.MaxIterations {
			iters = cfg.MaxIterations
		}
	}
}

// measure runs op iters times and returns the elapsed wall-clock
// time. A panic in op is converted to an ErrCasePanicked error.
func (r *Runner) measure(op Operation, iters int) (d time.Duration, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrCasePanicked, p)
		}
	}()

	acc := 0
	start := time.Now()

	for i := 0; i < iters; i++ {
		acc += op()
	}

	d = time.Since(start)
	r.sink += acc

	return d, nil
}

// summarize returns the mean, sample standard deviation, and standard
// error of the mean for the given samples.
func summarize(samples []float64) (mean, sdev, stderr float64) {
	n := float64(len(samples))

	for _, s := range samples {
		mean += s
	}
	mean /= n

	if len(samples) < 2 {
		return mean, 0, 0
	}

	var sumSq float64
	for _, s := range samples {
		d := s - mean
		sumSq += d * d
	}

	sdev = math.Sqrt(sumSq / (n - 1))
	stderr = sdev / math.Sqrt(n)

	return mean, sdev, stderr
}
