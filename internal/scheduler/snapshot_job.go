package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/moni-app/moni/internal/modules/snapshots"
)

// SnapshotJob records a portfolio snapshot on its schedule.
type SnapshotJob struct {
	service *snapshots.Service
	log     zerolog.Logger
}

// NewSnapshotJob creates a new snapshot job
func NewSnapshotJob(service *snapshots.Service, log zerolog.Logger) *SnapshotJob {
	return &SnapshotJob{
		service: service,
		log:     log.With().Str("job", "portfolio_snapshot").Logger(),
	}
}

// Name returns the job name
func (j *SnapshotJob) Name() string {
	return "portfolio_snapshot"
}

// Run records one snapshot
func (j *SnapshotJob) Run() error {
	snap, err := j.service.Record()
	if err != nil {
		return err
	}

	j.log.Debug().
		Int64("id", snap.ID).
		Float64("total_value", snap.TotalValue).
		Msg("Scheduled snapshot recorded")

	return nil
}
