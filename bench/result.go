package bench

// Unit is the measurement unit used in every Result.
const Unit = "ms/op"

// Result holds the statistical summary for one measured case. It is
// immutable once produced by RunAll.
type Result struct {
	Name          string    `json:"name"`
	MeanMs        float64   `json:"mean_ms"`
	ErrorMs       float64   `json:"mean_error_ms"`
	SdevMs        float64   `json:"sdev_ms"`
	Unit          string    `json:"unit"`
	Iterations    int       `json:"iterations"`
	Trials        int       `json:"trials"`
	LowConfidence bool      `json:"low_confidence,omitempty"`
	SamplesMs     []float64 `json:"samples_ms,omitempty"`
}
