package analysis

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Fixed-width nanoseconds so lexicographic ORDER BY created_at matches
// chronological order even within one second.
const createdAtFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Repository persists analysis results in analysis.db as msgpack blobs keyed
// by the run id.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates an analysis repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "analysis").Logger(),
	}
}

// Init creates the backing table.
func (r *Repository) Init() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS analyses (
			id TEXT PRIMARY KEY,
			payload BLOB NOT NULL,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create analyses table: %w", err)
	}
	return nil
}

// Save stores one result.
func (r *Repository) Save(result *Result) error {
	payload, err := msgpack.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode analysis %s: %w", result.ID, err)
	}

	_, err = r.db.Exec(
		"INSERT INTO analyses (id, payload, created_at) VALUES (?, ?, ?)",
		result.ID, payload, result.CreatedAt.UTC().Format(createdAtFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis %s: %w", result.ID, err)
	}

	r.log.Debug().Str("id", result.ID).Msg("Stored analysis result")
	return nil
}

// GetLatest returns the most recent result, or nil when none exist.
func (r *Repository) GetLatest() (*Result, error) {
	return r.queryOne("SELECT payload FROM analyses ORDER BY created_at DESC LIMIT 1")
}

// GetByID returns the result with the given id, or nil when absent.
func (r *Repository) GetByID(id string) (*Result, error) {
	return r.queryOne("SELECT payload FROM analyses WHERE id = ?", id)
}

func (r *Repository) queryOne(query string, args ...interface{}) (*Result, error) {
	var payload []byte
	err := r.db.QueryRow(query, args...).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis: %w", err)
	}

	var result Result
	if err := msgpack.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}
	return &result, nil
}

// List returns the most recent results, newest first.
func (r *Repository) List(limit int) ([]*Result, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query("SELECT payload FROM analyses ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var results []*Result
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		var result Result
		if err := msgpack.Unmarshal(payload, &result); err != nil {
			return nil, fmt.Errorf("failed to decode analysis: %w", err)
		}
		results = append(results, &result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analyses: %w", err)
	}

	return results, nil
}

// Count returns the number of stored analyses.
func (r *Repository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM analyses").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count analyses: %w", err)
	}
	return count, nil
}
