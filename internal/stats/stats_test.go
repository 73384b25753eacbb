package stats

import (
	"math"
	"sort"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestMean(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, want 0", got)
	}
	if got := Mean([]float64{1, 2, 3}); got != 2 {
		t.Errorf("Mean = %v, want 2", got)
	}
}

func TestMedian_OddEven(t *testing.T) {
	if got := Median([]float64{3, 1, 2}); got != 2 {
		t.Errorf("odd median = %v, want 2", got)
	}
	if got := Median([]float64{4, 1, 3, 2}); got != 2.5 {
		t.Errorf("even median = %v, want 2.5", got)
	}
	if got := Median(nil); got != 0 {
		t.Errorf("empty median = %v, want 0", got)
	}
}

func TestMedian_DoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Median(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input mutated: %v", values)
	}
}

func TestWeightedMean(t *testing.T) {
	// 1h at weight 100, 3h at weight 300 -> (100 + 900) / 400 = 2.5
	got := WeightedMean([]float64{1, 3}, []float64{100, 300})
	if !almostEqual(got, 2.5, 1e-9) {
		t.Errorf("WeightedMean = %v, want 2.5", got)
	}

	if got := WeightedMean([]float64{1}, []float64{0}); got != 0 {
		t.Errorf("zero-weight WeightedMean = %v, want 0", got)
	}
	if got := WeightedMean([]float64{1, 2}, []float64{1}); got != 0 {
		t.Errorf("mismatched lengths should yield 0, got %v", got)
	}
}

func TestStddev(t *testing.T) {
	if got := Stddev([]float64{5}); got != 0 {
		t.Errorf("single-sample stddev = %v, want 0", got)
	}
	// Sample stddev of {2, 4, 4, 4, 5, 5, 7, 9} is ~2.138
	got := Stddev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if !almostEqual(got, 2.13809, 1e-4) {
		t.Errorf("Stddev = %v, want ~2.138", got)
	}
}

func TestPercentile(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	sort.Float64s(values)

	if got := Percentile(values, 0.5); got != 3 {
		t.Errorf("P50 = %v, want 3", got)
	}
	if got := Percentile(values, 0.75); got != 4 {
		t.Errorf("P75 = %v, want 4", got)
	}
	if got := Percentile(nil, 0.5); got != 0 {
		t.Errorf("empty percentile = %v, want 0", got)
	}
}

func TestCircularMeanHours_Midnight(t *testing.T) {
	// 23:00 and 01:00 average to midnight, not noon.
	got := CircularMeanHours([]float64{23, 1})
	if !almostEqual(got, 0, 1e-6) && !almostEqual(got, 24, 1e-6) {
		t.Errorf("CircularMeanHours({23,1}) = %v, want ~0", got)
	}
}

func TestCircularMeanHours_PlainCase(t *testing.T) {
	got := CircularMeanHours([]float64{10, 14})
	if !almostEqual(got, 12, 1e-6) {
		t.Errorf("CircularMeanHours({10,14}) = %v, want 12", got)
	}
}

func TestCircularMeanHours_Degenerate(t *testing.T) {
	// Opposite points cancel out.
	got := CircularMeanHours([]float64{0, 12})
	if got != 0 {
		t.Errorf("CircularMeanHours({0,12}) = %v, want 0", got)
	}
	if got := CircularMeanHours(nil); got != 0 {
		t.Errorf("empty = %v, want 0", got)
	}
}

func TestClamp01(t *testing.T) {
	if got := Clamp01(-0.5); got != 0 {
		t.Errorf("Clamp01(-0.5) = %v", got)
	}
	if got := Clamp01(1.5); got != 1 {
		t.Errorf("Clamp01(1.5) = %v", got)
	}
	if got := Clamp01(0.3); got != 0.3 {
		t.Errorf("Clamp01(0.3) = %v", got)
	}
}
