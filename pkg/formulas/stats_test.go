package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		p    float64
		want float64
	}{
		{
			name: "median of odd-length slice",
			data: []float64{3, 1, 2},
			p:    0.5,
			want: 2,
		},
		{
			name: "median interpolates between middle values",
			data: []float64{1, 2, 3, 4},
			p:    0.5,
			want: 2.5,
		},
		{
			name: "p=0 returns minimum",
			data: []float64{5, -2, 7},
			p:    0,
			want: -2,
		},
		{
			name: "p=1 returns maximum",
			data: []float64{5, -2, 7},
			p:    1,
			want: 7,
		},
		{
			name: "1st percentile of four dollar returns",
			data: []float64{15000, -5000, 15000, -10000},
			p:    0.01,
			want: -9850, // -10000 + 0.03 * 5000
		},
		{
			name: "5th percentile interpolation",
			data: []float64{10, 20, 30, 40, 50},
			p:    0.05,
			want: 12, // 10 + 0.2 * 10
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Percentile(tt.data, tt.p), 1e-9)
		})
	}
}

func TestPercentileEmpty(t *testing.T) {
	assert.True(t, math.IsNaN(Percentile(nil, 0.5)))
}

func TestPercentileDoesNotMutateInput(t *testing.T) {
	data := []float64{3, 1, 2}
	Percentile(data, 0.5)
	assert.Equal(t, []float64{3, 1, 2}, data)
}

func TestStdDev(t *testing.T) {
	// Sample stddev (N-1 denominator) of the hand-computed portfolio series.
	data := []float64{0.015, -0.005, 0.015, -0.01}
	assert.InDelta(t, 0.013149778, StdDev(data), 1e-8)
	assert.InDelta(t, 0.00375, Mean(data), 1e-12)
}

func TestCovarianceAndCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{2, 4, 6, 8}

	assert.InDelta(t, 1.0, Correlation(x, y), 1e-12)
	assert.InDelta(t, 2*Variance(x), Covariance(x, y), 1e-12)

	// Mismatched lengths degrade to zero rather than panicking.
	assert.Equal(t, 0.0, Covariance(x, y[:2]))
	assert.Equal(t, 0.0, Correlation(nil, y))
}
