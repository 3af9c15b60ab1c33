package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lead-pruner/internal/models"
)

// BackupRepository mirrors backed-up leads into the audit database. The CSV
// on disk stays the durable copy; these rows exist so a lead can be looked
// up later without digging through artifact files.
type BackupRepository struct {
	db *PostgresDB
}

// NewBackupRepository creates a new backup repository
func NewBackupRepository(db *PostgresDB) *BackupRepository {
	return &BackupRepository{db: db}
}

// CreateBatch inserts all backup records of one run in a single batch
func (r *BackupRepository) CreateBatch(ctx context.Context, runID string, records []models.BackupRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO backup_records (
			run_id, campaign_id, campaign_name, lead_id, email, backup_at, fields
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	batch := &pgx.Batch{}
	for _, record := range records {
		batch.Queue(query,
			runID,
			record.CampaignID,
			record.CampaignName,
			record.LeadID,
			record.Email,
			record.BackupAt,
			record.Fields,
		)
	}

	results := r.db.Pool().SendBatch(ctx, batch)
	defer func() {
		_ = results.Close() // nolint:errcheck // cleanup in defer
	}()

	for range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert backup record: %w", err)
		}
	}

	return nil
}

// CountByRun returns the number of mirrored records for a run
func (r *BackupRepository) CountByRun(ctx context.Context, runID string) (int, error) {
	query := `SELECT COUNT(*) FROM backup_records WHERE run_id = $1`

	var count int
	if err := r.db.Pool().QueryRow(ctx, query, runID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count backup records: %w", err)
	}

	return count, nil
}

// FindByEmail retrieves every backed-up lead with the given email address,
// newest first. This is the restore path: when a lead was deleted by
// mistake, the full exported row is in the fields column.
func (r *BackupRepository) FindByEmail(ctx context.Context, email string) ([]models.BackupRecord, error) {
	query := `
		SELECT campaign_id, campaign_name, lead_id, email, backup_at, fields
		FROM backup_records
		WHERE email = $1
		ORDER BY backup_at DESC
	`

	rows, err := r.db.Pool().Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find backup records: %w", err)
	}
	defer rows.Close()

	var records []models.BackupRecord
	for rows.Next() {
		var record models.BackupRecord

		err := rows.Scan(
			&record.CampaignID,
			&record.CampaignName,
			&record.LeadID,
			&record.Email,
			&record.BackupAt,
			&record.Fields,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan backup record: %w", err)
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating backup records: %w", err)
	}

	return records, nil
}

// ListByRun retrieves the mirrored records of one run in insertion order
func (r *BackupRepository) ListByRun(ctx context.Context, runID string) ([]models.BackupRecord, error) {
	query := `
		SELECT campaign_id, campaign_name, lead_id, email, backup_at, fields
		FROM backup_records
		WHERE run_id = $1
		ORDER BY id
	`

	rows, err := r.db.Pool().Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list backup records: %w", err)
	}
	defer rows.Close()

	var records []models.BackupRecord
	for rows.Next() {
		var record models.BackupRecord

		err := rows.Scan(
			&record.CampaignID,
			&record.CampaignName,
			&record.LeadID,
			&record.Email,
			&record.BackupAt,
			&record.Fields,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan backup record: %w", err)
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating backup records: %w", err)
	}

	return records, nil
}
