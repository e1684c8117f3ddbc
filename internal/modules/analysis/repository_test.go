package analysis

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphacapital/riskengine/internal/database"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := database.New(database.Config{
		Path: filepath.Join(t.TempDir(), "analysis.db"),
		Name: "analysis",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(db.Conn(), zerolog.Nop())
	require.NoError(t, repo.Init())
	return repo
}

func sampleResult(id string, createdAt time.Time) *Result {
	return &Result{
		ID:        id,
		CreatedAt: createdAt,
		FundName:  "Alpha Capital Management",
		AUM:       500_000_000,
		Strategy:  "max_sharpe",
		Current:   RiskMetrics{AnnualizedReturn: 0.12, SharpeRatio: math.NaN()},
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.GetLatest()
	require.NoError(t, err)
	assert.Nil(t, got)

	want := sampleResult("run-1", time.Now().UTC())
	require.NoError(t, repo.Save(want))

	got, err = repo.GetByID("run-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.AUM, got.AUM)
	assert.True(t, math.IsNaN(got.Current.SharpeRatio), "NaN metrics survive the round trip")

	missing, err := repo.GetByID("no-such-run")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepositoryGetLatestOrdersSubsecondRuns(t *testing.T) {
	repo := newTestRepo(t)

	// Fractional seconds that misorder lexicographically when trailing zeros
	// are trimmed: ".5" would sort after ".52".
	base := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	older := sampleResult("older", base.Add(500*time.Millisecond))
	newer := sampleResult("newer", base.Add(520*time.Millisecond))

	require.NoError(t, repo.Save(older))
	require.NoError(t, repo.Save(newer))

	got, err := repo.GetLatest()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "newer", got.ID)

	list, err := repo.List(10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].ID)
	assert.Equal(t, "older", list[1].ID)
}
