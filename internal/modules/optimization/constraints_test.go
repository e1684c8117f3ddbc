package optimization

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alphacapital/riskengine/internal/domain"
)

func TestBoundsValidate(t *testing.T) {
	tests := []struct {
		name    string
		bounds  Bounds
		n       int
		wantErr bool
	}{
		{"default bounds, 10 assets", DefaultBounds, 10, false},
		{"min too high for asset count", Bounds{Min: 0.3, Max: 0.5}, 4, true},
		{"max too low for asset count", Bounds{Min: 0.0, Max: 0.2}, 4, true},
		{"inverted box", Bounds{Min: 0.5, Max: 0.1}, 4, true},
		{"negative min", Bounds{Min: -0.1, Max: 0.5}, 4, true},
		{"no assets", DefaultBounds, 0, true},
		{"exactly feasible", Bounds{Min: 0.25, Max: 0.25}, 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bounds.Validate(tt.n)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApplyBounds(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		bounds  Bounds
		want    []float64
	}{
		{
			name:    "feasible input unchanged",
			weights: []float64{0.25, 0.25, 0.25, 0.25},
			bounds:  Bounds{Min: 0.1, Max: 0.5},
			want:    []float64{0.25, 0.25, 0.25, 0.25},
		},
		{
			name:    "excess budget spread equally",
			weights: []float64{0.5, 0.5, 0.5},
			bounds:  Bounds{Min: 0, Max: 1},
			want:    []float64{1.0 / 3, 1.0 / 3, 1.0 / 3},
		},
		{
			name:    "clamping alone restores the budget",
			weights: []float64{0.9, 0.05, 0.05},
			bounds:  Bounds{Min: 0.2, Max: 0.6},
			want:    []float64{0.6, 0.2, 0.2},
		},
		{
			name:    "residual lands on the one free component",
			weights: []float64{0.25, 0.25, 0.3},
			bounds:  Bounds{Min: 0.25, Max: 0.6},
			want:    []float64{0.25, 0.25, 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyBounds(tt.weights, tt.bounds)

			assert.InDeltaSlice(t, tt.want, got, 1e-9)

			sum := 0.0
			for _, w := range got {
				sum += w
				assert.GreaterOrEqual(t, w, tt.bounds.Min-1e-9)
				assert.LessOrEqual(t, w, tt.bounds.Max+1e-9)
			}
			assert.InDelta(t, 1.0, sum, 1e-6)
		})
	}
}

func TestApplyBoundsDoesNotMutateInput(t *testing.T) {
	weights := []float64{0.5, 0.5, 0.5}
	ApplyBounds(weights, Bounds{Min: 0, Max: 1})
	assert.Equal(t, []float64{0.5, 0.5, 0.5}, weights)
}
