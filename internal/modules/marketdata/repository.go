package marketdata

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/alphacapital/riskengine/internal/domain"
)

// Repository persists generated return series in history.db. Matrices are
// stored as msgpack blobs; a row carries the full series plus its benchmark
// so an analysis always sees a consistent pair.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a return-series repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "return_series").Logger(),
	}
}

// Init creates the backing table.
func (r *Repository) Init() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS return_series (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			payload BLOB NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create return_series table: %w", err)
	}
	return nil
}

type storedSeries struct {
	Symbols   []string    `msgpack:"symbols"`
	Rows      [][]float64 `msgpack:"rows"`
	Benchmark []float64   `msgpack:"benchmark"`
}

// Save stores a series with its benchmark and returns the row id.
func (r *Repository) Save(series *domain.ReturnSeries, benchmark []float64) (int64, error) {
	payload, err := msgpack.Marshal(storedSeries{
		Symbols:   series.Symbols(),
		Rows:      series.Rows(),
		Benchmark: benchmark,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to encode return series: %w", err)
	}

	res, err := r.db.Exec("INSERT INTO return_series (payload) VALUES (?)", payload)
	if err != nil {
		return 0, fmt.Errorf("failed to insert return series: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}

	r.log.Info().
		Int64("id", id).
		Int("periods", series.Periods()).
		Int("assets", series.Assets()).
		Msg("Stored return series")

	return id, nil
}

// LoadLatest returns the most recently stored series and benchmark, or
// (nil, nil, nil) when the table is empty.
func (r *Repository) LoadLatest() (*domain.ReturnSeries, []float64, error) {
	var payload []byte
	err := r.db.QueryRow("SELECT payload FROM return_series ORDER BY id DESC LIMIT 1").Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query latest return series: %w", err)
	}

	var stored storedSeries
	if err := msgpack.Unmarshal(payload, &stored); err != nil {
		return nil, nil, fmt.Errorf("failed to decode return series: %w", err)
	}

	series, err := domain.NewReturnSeries(stored.Symbols, stored.Rows)
	if err != nil {
		return nil, nil, fmt.Errorf("stored return series is invalid: %w", err)
	}

	return series, stored.Benchmark, nil
}

// Count returns the number of stored series.
func (r *Repository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM return_series").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count return series: %w", err)
	}
	return count, nil
}
