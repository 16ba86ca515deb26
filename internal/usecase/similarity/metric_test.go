package similarity

import (
	"math"
	"testing"
)

func TestParseMetric(t *testing.T) {
	tests := []struct {
		in      string
		want    Metric
		wantErr bool
	}{
		{"", Euclidean, false},
		{"euclidean", Euclidean, false},
		{"manhattan", Manhattan, false},
		{"cosine", Cosine, false},
		{"chebyshev", "", true},
	}

	for _, tt := range tests {
		t.Run("in="+tt.in, func(t *testing.T) {
			got, err := ParseMetric(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseMetric(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDistance(t *testing.T) {
	a := []float64{0, 0}
	b := []float64{3, 4}

	if d := Euclidean.Distance(a, b); d != 5 {
		t.Errorf("euclidean = %v, want 5", d)
	}
	if d := Manhattan.Distance(a, b); d != 7 {
		t.Errorf("manhattan = %v, want 7", d)
	}
}

func TestDistance_IdenticalVectors(t *testing.T) {
	v := []float64{0.2, 0.8, 1}
	for _, m := range []Metric{Euclidean, Manhattan, Cosine} {
		if d := m.Distance(v, v); d > 1e-12 {
			t.Errorf("%s self-distance = %v, want 0", m, d)
		}
	}
}

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 1},
		{"parallel", []float64{1, 1}, []float64{2, 2}, 0},
		{"both zero norm", []float64{0, 0}, []float64{0, 0}, 0},
		{"one zero norm", []float64{0, 0}, []float64{1, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine.Distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("cosine = %v, want %v", got, tt.want)
			}
		})
	}
}
