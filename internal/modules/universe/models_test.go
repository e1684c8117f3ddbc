package universe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphacapital/riskengine/internal/domain"
)

func TestUniverseValidate(t *testing.T) {
	tests := []struct {
		name    string
		u       Universe
		wantErr bool
	}{
		{"default is valid", Default(), false},
		{"empty universe", Universe{}, true},
		{
			"duplicate symbol",
			Universe{Securities: []Security{
				{Symbol: "AAPL", Sector: "Technology", Weight: 0.5},
				{Symbol: "AAPL", Sector: "Technology", Weight: 0.5},
			}},
			true,
		},
		{
			"missing sector",
			Universe{Securities: []Security{{Symbol: "AAPL", Weight: 0.5}}},
			true,
		},
		{
			"empty symbol",
			Universe{Securities: []Security{{Sector: "Technology", Weight: 0.5}}},
			true,
		},
		{
			"negative weight",
			Universe{Securities: []Security{{Symbol: "AAPL", Sector: "Technology", Weight: -0.1}}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.u.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultUniverse(t *testing.T) {
	u := Default()
	require.Len(t, u.Securities, 10)

	assert.Equal(t, []string{
		"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA",
		"JPM", "GS", "BAC", "XOM", "JNJ",
	}, u.Symbols())

	total := 0.0
	for _, w := range u.Weights() {
		total += w
	}
	assert.InDelta(t, 1.0, total, 1e-12, "current allocation is fully invested")
}
