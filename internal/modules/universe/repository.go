package universe

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// Repository handles security persistence in universe.db.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a universe repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "universe").Logger(),
	}
}

// Init creates the backing table. position preserves universe order, which
// fixes the return-matrix column order.
func (r *Repository) Init() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS securities (
			symbol TEXT PRIMARY KEY,
			sector TEXT NOT NULL,
			weight REAL NOT NULL DEFAULT 0,
			position INTEGER NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create securities table: %w", err)
	}
	return nil
}

// GetAll returns the stored universe in position order.
func (r *Repository) GetAll() (Universe, error) {
	rows, err := r.db.Query("SELECT symbol, sector, weight FROM securities ORDER BY position ASC")
	if err != nil {
		return Universe{}, fmt.Errorf("failed to query securities: %w", err)
	}
	defer rows.Close()

	var u Universe
	for rows.Next() {
		var sec Security
		if err := rows.Scan(&sec.Symbol, &sec.Sector, &sec.Weight); err != nil {
			return Universe{}, fmt.Errorf("failed to scan security: %w", err)
		}
		u.Securities = append(u.Securities, sec)
	}
	if err := rows.Err(); err != nil {
		return Universe{}, fmt.Errorf("error iterating securities: %w", err)
	}

	return u, nil
}

// ReplaceAll swaps the stored universe for the given one, atomically.
func (r *Repository) ReplaceAll(u Universe) error {
	if err := u.Validate(); err != nil {
		return err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM securities"); err != nil {
		return fmt.Errorf("failed to clear securities: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO securities (symbol, sector, weight, position) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, sec := range u.Securities {
		if _, err := stmt.Exec(sec.Symbol, sec.Sector, sec.Weight, i); err != nil {
			return fmt.Errorf("failed to insert security %s: %w", sec.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit universe: %w", err)
	}

	r.log.Info().Int("num_securities", len(u.Securities)).Msg("Replaced universe")
	return nil
}

// Count returns the number of stored securities.
func (r *Repository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM securities").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count securities: %w", err)
	}
	return count, nil
}
