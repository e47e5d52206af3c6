package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/weiihann/ubench/bench"
)

func TestGenerateTable(t *testing.T) {
	results := []bench.Result{
		{
			Name:       "sum_loop",
			MeanMs:     0.5,
			ErrorMs:    0.01,
			SdevMs:     0.02,
			Unit:       bench.Unit,
			Iterations: 1024,
			Trials:     5,
			SamplesMs:  []float64{0.48, 0.49, 0.5, 0.51, 0.52},
		},
		{
			Name:       "fold_curried",
			MeanMs:     1.0,
			ErrorMs:    0.02,
			SdevMs:     0.04,
			Unit:       bench.Unit,
			Iterations: 512,
			Trials:     5,
			SamplesMs:  []float64{0.96, 0.98, 1.0, 1.02, 1.04},
		},
	}

	var buf bytes.Buffer
	if err := Generate(&buf, results); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "| Benchmark | Mean | Mean-Error | Sdev | Unit | Count |") {
		t.Error("expected fixed column header")
	}
	if !strings.Contains(output, "| sum_loop | 0.500000 | 0.010000 | 0.020000 | ms/op | 1024 |") {
		t.Errorf("missing sum_loop row in:\n%s", output)
	}
	if !strings.Contains(output, "| fold_curried | 1.000000 | 0.020000 | 0.040000 | ms/op | 512 |") {
		t.Errorf("missing fold_curried row in:\n%s", output)
	}
	if !strings.Contains(output, "Baseline: sum_loop") {
		t.Error("expected comparison section against the first case")
	}
	if !strings.Contains(output, "fold_curried: 2.00x") {
		t.Errorf("expected 2.00x ratio for fold_curried in:\n%s", output)
	}
}

func TestGenerateRowOrder(t *testing.T) {
	results := []bench.Result{
		{Name: "beta", MeanMs: 2, Unit: bench.Unit, Iterations: 1},
		{Name: "alpha", MeanMs: 1, Unit: bench.Unit, Iterations: 1},
	}

	var buf bytes.Buffer
	if err := Generate(&buf, results); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	output := buf.String()

	if strings.Index(output, "beta") > strings.Index(output, "alpha") {
		t.Error("rows must follow result order, not name or speed")
	}
}

func TestGenerateLowConfidenceNote(t *testing.T) {
	results := []bench.Result{
		{
			Name:          "cheap",
			MeanMs:        0.000001,
			Unit:          bench.Unit,
			Iterations:    1 << 20,
			LowConfidence: true,
		},
	}

	var buf bytes.Buffer
	if err := Generate(&buf, results); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.Contains(buf.String(), "low confidence") {
		t.Error("expected a low confidence note")
	}
}

func TestGenerateEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(&buf, nil); err == nil {
		t.Error("expected error for empty result set")
	}
}

func TestGenerateJSON(t *testing.T) {
	results := []bench.Result{
		{
			Name:       "fold",
			MeanMs:     0.75,
			ErrorMs:    0.01,
			SdevMs:     0.02,
			Unit:       bench.Unit,
			Iterations: 2048,
			Trials:     5,
		},
	}

	var buf bytes.Buffer
	if err := GenerateJSON(&buf, results); err != nil {
		t.Fatalf("GenerateJSON failed: %v", err)
	}

	var decoded []bench.Result
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(decoded) != 1 || decoded[0].Name != "fold" {
		t.Errorf("decoded = %+v, want one result named fold", decoded)
	}
	if decoded[0].Iterations != 2048 {
		t.Errorf("iterations = %d, want 2048", decoded[0].Iterations)
	}
}
