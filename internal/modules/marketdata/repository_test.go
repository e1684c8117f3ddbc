package marketdata

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphacapital/riskengine/internal/database"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := database.New(database.Config{
		Path: filepath.Join(t.TempDir(), "history.db"),
		Name: "history",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(db.Conn(), zerolog.Nop())
	require.NoError(t, repo.Init())
	return repo
}

func TestRepositoryRoundTrip(t *testing.T) {
	repo := newTestRepo(t)

	series, benchmark, err := repo.LoadLatest()
	require.NoError(t, err)
	assert.Nil(t, series)
	assert.Nil(t, benchmark)

	cfg := DefaultGeneratorConfig(42)
	cfg.Periods = 30
	want, err := GenerateReturnSeries(cfg)
	require.NoError(t, err)
	wantBench := BenchmarkReturns(want, 42)

	_, err = repo.Save(want, wantBench)
	require.NoError(t, err)

	got, gotBench, err := repo.LoadLatest()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Rows(), got.Rows())
	assert.Equal(t, want.Symbols(), got.Symbols())
	assert.Equal(t, wantBench, gotBench)
}

func TestRepositoryLoadLatestPicksNewest(t *testing.T) {
	repo := newTestRepo(t)

	cfg := DefaultGeneratorConfig(1)
	cfg.Periods = 20
	first, err := GenerateReturnSeries(cfg)
	require.NoError(t, err)
	_, err = repo.Save(first, BenchmarkReturns(first, 1))
	require.NoError(t, err)

	cfg.Seed = 2
	second, err := GenerateReturnSeries(cfg)
	require.NoError(t, err)
	_, err = repo.Save(second, BenchmarkReturns(second, 2))
	require.NoError(t, err)

	got, _, err := repo.LoadLatest()
	require.NoError(t, err)
	assert.Equal(t, second.Rows(), got.Rows())

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
