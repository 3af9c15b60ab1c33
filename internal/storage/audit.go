package storage

import (
	"context"

	"github.com/lead-pruner/internal/models"
)

// AuditStore bundles the run and backup repositories behind the interface
// the pipeline consumes.
type AuditStore struct {
	runs    *RunRepository
	backups *BackupRepository
}

// NewAuditStore creates an audit store on the given database
func NewAuditStore(db *PostgresDB) *AuditStore {
	return &AuditStore{
		runs:    NewRunRepository(db),
		backups: NewBackupRepository(db),
	}
}

// RecordRun persists the final stats of one run
func (s *AuditStore) RecordRun(ctx context.Context, stats *models.RunStats) error {
	return s.runs.Create(ctx, stats)
}

// RecordBackup mirrors the backup records of one run
func (s *AuditStore) RecordBackup(ctx context.Context, runID string, records []models.BackupRecord) error {
	return s.backups.CreateBatch(ctx, runID, records)
}

// Runs exposes the run repository for reporting queries
func (s *AuditStore) Runs() *RunRepository {
	return s.runs
}

// Backups exposes the backup repository for restore lookups
func (s *AuditStore) Backups() *BackupRepository {
	return s.backups
}
