package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/alphacapital/riskengine/internal/database"
)

// CheckDatabasesJob runs integrity checks over the engine's databases.
type CheckDatabasesJob struct {
	databases []*database.DB
	log       zerolog.Logger
}

// NewCheckDatabasesJob creates the database health check job.
func NewCheckDatabasesJob(databases []*database.DB, log zerolog.Logger) *CheckDatabasesJob {
	return &CheckDatabasesJob{
		databases: databases,
		log:       log.With().Str("job", "check_databases").Logger(),
	}
}

// Name returns the job name.
func (j *CheckDatabasesJob) Name() string {
	return "check_databases"
}

// Run checks every database and reports the first failure.
func (j *CheckDatabasesJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, db := range j.databases {
		if err := db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database %s failed health check: %w", db.Name(), err)
		}
		j.log.Debug().Str("database", db.Name()).Msg("Database healthy")
	}
	return nil
}
