// Package report formats benchmark results into comparison tables.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"golang.org/x/perf/benchmath"

	"github.com/weiihann/ubench/bench"
)

// compareAlpha is the significance level for the pairwise comparison.
const compareAlpha = 0.05

// Generate writes a markdown comparison table for the given results,
// in the order they were produced. Columns are fixed: Benchmark, Mean,
// Mean-Error, Sdev, Unit, Count.
func Generate(w io.Writer, results []bench.Result) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to report")
	}

	fmt.Fprintln(w, "## Benchmark Results")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "| Benchmark | Mean | Mean-Error | Sdev | Unit | Count |")
	fmt.Fprintln(w, "|-----------|------|------------|------|------|-------|")

	for _, r := range results {
		fmt.Fprintf(w, "| %s | %.6f | %.6f | %.6f | %s | %d |\n",
			r.Name,
			r.MeanMs,
			r.ErrorMs,
			r.SdevMs,
			r.Unit,
			r.Iterations,
		)
	}

	for _, r := range results {
		if r.LowConfidence {
			fmt.Fprintf(w,
				"\nNote: %s hit the iteration ceiling (%d) before reaching "+
					"the stability threshold; treat its numbers as low confidence.\n",
				r.Name, r.Iterations,
			)
		}
	}

	writeComparison(w, results)

	return nil
}

// GenerateJSON writes results as JSON to w.
func GenerateJSON(w io.Writer, results []bench.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(results)
}

// writeComparison prints each case's speed ratio against the
// first-registered case, with a Mann-Whitney p-value when the results
// carry enough trial samples to test.
func writeComparison(w io.Writer, results []bench.Result) {
	if len(results) < 2 {
		return
	}

	base := results[0]
	if len(base.SamplesMs) < 2 || base.MeanMs <= 0 {
		return
	}

	baseSample := benchmath.NewSample(base.SamplesMs, &benchmath.DefaultThresholds)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Baseline: %s\n", base.Name)

	for _, r := range results[1:] {
		if len(r.SamplesMs) < 2 {
			continue
		}

		ratio := r.MeanMs / base.MeanMs
		sample := benchmath.NewSample(r.SamplesMs, &benchmath.DefaultThresholds)
		cmp := benchmath.AssumeNothing.Compare(baseSample, sample)

		if math.IsNaN(cmp.P) {
			fmt.Fprintf(w, "  %s: %.2fx (too few samples to test)\n",
				r.Name, ratio)

			continue
		}

		verdict := "not significant"
		if cmp.P < compareAlpha {
			verdict = "significant"
		}

		fmt.Fprintf(w, "  %s: %.2fx (p=%.3f, %s at a=%.2f)\n",
			r.Name, ratio, cmp.P, verdict, compareAlpha)
	}
}
