package domain

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ReturnSeries is an immutable T x N matrix of per-period fractional returns
// for N assets over T periods, plus the asset symbols in column order.
//
// The constructor copies its inputs and all accessors return copies, so a
// series can be shared across components without a locking discipline.
type ReturnSeries struct {
	symbols []string
	data    []float64 // row-major, periods x assets
	periods int
	assets  int
}

// NewReturnSeries builds a return series from time-ordered rows.
// It requires at least 2 periods and a symbol for every column.
func NewReturnSeries(symbols []string, rows [][]float64) (*ReturnSeries, error) {
	n := len(symbols)
	if n == 0 {
		return nil, fmt.Errorf("%w: no symbols provided", ErrInvalidConfiguration)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 periods, got %d", ErrInvalidConfiguration, len(rows))
	}

	data := make([]float64, 0, len(rows)*n)
	for t, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrInvalidConfiguration, t, len(row), n)
		}
		data = append(data, row...)
	}

	syms := make([]string, n)
	copy(syms, symbols)

	return &ReturnSeries{
		symbols: syms,
		data:    data,
		periods: len(rows),
		assets:  n,
	}, nil
}

// Periods returns T, the number of time periods.
func (s *ReturnSeries) Periods() int { return s.periods }

// Assets returns N, the number of assets.
func (s *ReturnSeries) Assets() int { return s.assets }

// Symbols returns a copy of the asset symbols in column order.
func (s *ReturnSeries) Symbols() []string {
	out := make([]string, s.assets)
	copy(out, s.symbols)
	return out
}

// At returns the fractional return of asset i at period t.
func (s *ReturnSeries) At(t, i int) float64 {
	return s.data[t*s.assets+i]
}

// Rows returns a copy of the full matrix, one slice per period.
func (s *ReturnSeries) Rows() [][]float64 {
	out := make([][]float64, s.periods)
	for t := 0; t < s.periods; t++ {
		row := make([]float64, s.assets)
		copy(row, s.data[t*s.assets:(t+1)*s.assets])
		out[t] = row
	}
	return out
}

// Column returns a copy of asset i's return history.
func (s *ReturnSeries) Column(i int) []float64 {
	out := make([]float64, s.periods)
	for t := 0; t < s.periods; t++ {
		out[t] = s.data[t*s.assets+i]
	}
	return out
}

// Dense returns the matrix as a gonum Dense copy, periods x assets.
func (s *ReturnSeries) Dense() *mat.Dense {
	data := make([]float64, len(s.data))
	copy(data, s.data)
	return mat.NewDense(s.periods, s.assets, data)
}

// PortfolioReturns projects the series onto a weight vector: one portfolio
// return per period, weights . row.
func (s *ReturnSeries) PortfolioReturns(weights []float64) ([]float64, error) {
	if len(weights) != s.assets {
		return nil, fmt.Errorf("%w: %d weights for %d assets", ErrInvalidConfiguration, len(weights), s.assets)
	}

	out := make([]float64, s.periods)
	for t := 0; t < s.periods; t++ {
		row := s.data[t*s.assets : (t+1)*s.assets]
		var r float64
		for i, w := range weights {
			r += w * row[i]
		}
		out[t] = r
	}
	return out, nil
}
