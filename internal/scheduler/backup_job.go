package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/moni-app/moni/internal/reliability"
)

// backupTimeout bounds one backup run, upload included.
const backupTimeout = 10 * time.Minute

// BackupJob uploads a database backup and prunes old archives.
type BackupJob struct {
	service *reliability.BackupService
	log     zerolog.Logger
}

// NewBackupJob creates a new backup job
func NewBackupJob(service *reliability.BackupService, log zerolog.Logger) *BackupJob {
	return &BackupJob{
		service: service,
		log:     log.With().Str("job", "backup").Logger(),
	}
}

// Name returns the job name
func (j *BackupJob) Name() string {
	return "backup"
}

// Run creates and uploads one backup, then prunes old archives
func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), backupTimeout)
	defer cancel()

	if err := j.service.CreateAndUpload(ctx); err != nil {
		return err
	}

	if err := j.service.Prune(ctx); err != nil {
		j.log.Warn().Err(err).Msg("Backup pruning failed")
	}

	return nil
}
