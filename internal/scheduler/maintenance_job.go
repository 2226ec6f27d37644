package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/moni-app/moni/internal/database"
)

// MaintenanceJob checkpoints the WAL and runs an integrity quick check on
// every open database. Keeps WAL files from growing unbounded between
// restarts.
type MaintenanceJob struct {
	databases []*database.DB
	log       zerolog.Logger
}

// NewMaintenanceJob creates a new maintenance job
func NewMaintenanceJob(databases []*database.DB, log zerolog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		databases: databases,
		log:       log.With().Str("job", "db_maintenance").Logger(),
	}
}

// Name returns the job name
func (j *MaintenanceJob) Name() string {
	return "db_maintenance"
}

// Run checkpoints and checks each database in turn. A failure on one
// database does not stop the others.
func (j *MaintenanceJob) Run() error {
	for _, db := range j.databases {
		if db == nil {
			continue
		}

		if err := db.WALCheckpoint("TRUNCATE"); err != nil {
			j.log.Warn().
				Err(err).
				Str("database", db.Name()).
				Msg("WAL checkpoint failed")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.QuickCheck(ctx); err != nil {
			j.log.Error().
				Err(err).
				Str("database", db.Name()).
				Msg("Integrity quick check failed")
		}
		cancel()
	}

	return nil
}
