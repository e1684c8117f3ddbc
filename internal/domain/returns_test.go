package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReturnSeriesValidation(t *testing.T) {
	tests := []struct {
		name    string
		symbols []string
		rows    [][]float64
		wantErr bool
	}{
		{
			name:    "valid 2x2",
			symbols: []string{"A", "B"},
			rows:    [][]float64{{0.01, 0.02}, {-0.01, 0.0}},
			wantErr: false,
		},
		{
			name:    "no symbols",
			symbols: nil,
			rows:    [][]float64{{0.01}, {0.02}},
			wantErr: true,
		},
		{
			name:    "single period",
			symbols: []string{"A"},
			rows:    [][]float64{{0.01}},
			wantErr: true,
		},
		{
			name:    "ragged rows",
			symbols: []string{"A", "B"},
			rows:    [][]float64{{0.01, 0.02}, {-0.01}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewReturnSeries(tt.symbols, tt.rows)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.rows), s.Periods())
			assert.Equal(t, len(tt.symbols), s.Assets())
		})
	}
}

func TestReturnSeriesImmutability(t *testing.T) {
	rows := [][]float64{{0.01, 0.02}, {-0.01, 0.0}}
	s, err := NewReturnSeries([]string{"A", "B"}, rows)
	require.NoError(t, err)

	// Mutating the source rows must not touch the series.
	rows[0][0] = 99
	assert.Equal(t, 0.01, s.At(0, 0))

	// Mutating accessor outputs must not touch the series either.
	s.Rows()[1][1] = 99
	s.Column(0)[0] = 99
	s.Symbols()[0] = "X"
	assert.Equal(t, 0.0, s.At(1, 1))
	assert.Equal(t, 0.01, s.At(0, 0))
	assert.Equal(t, "A", s.Symbols()[0])
}

func TestPortfolioReturns(t *testing.T) {
	s, err := NewReturnSeries([]string{"A", "B"}, [][]float64{
		{0.01, 0.02},
		{-0.01, 0.00},
		{0.02, 0.01},
		{0.00, -0.02},
	})
	require.NoError(t, err)

	pr, err := s.PortfolioReturns([]float64{0.5, 0.5})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.015, -0.005, 0.015, -0.01}, pr, 1e-12)

	_, err = s.PortfolioReturns([]float64{1.0})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}
