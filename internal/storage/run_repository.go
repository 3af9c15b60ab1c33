package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lead-pruner/internal/models"
)

// RunRepository persists pruning run stats for audit and trend queries.
type RunRepository struct {
	db *PostgresDB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *PostgresDB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts one finished run. Runs are written once at the end of the
// pipeline and never updated.
func (r *RunRepository) Create(ctx context.Context, stats *models.RunStats) error {
	query := `
		INSERT INTO prune_runs (
			run_id, started_at, finished_at, status, error,
			campaigns_fetched, campaigns_eligible, campaigns_selected,
			leads_backed_up, leads_deleted, leads_failed,
			report_file, backup_file, log_file
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		stats.RunID,
		stats.StartedAt,
		stats.FinishedAt,
		stats.Status,
		stats.Error,
		stats.CampaignsFetched,
		stats.CampaignsEligible,
		stats.CampaignsSelected,
		stats.LeadsBackedUp,
		stats.LeadsDeleted,
		stats.LeadsFailed,
		stats.ReportFile,
		stats.BackupFile,
		stats.LogFile,
	)

	if err != nil {
		return fmt.Errorf("failed to create prune run: %w", err)
	}

	return nil
}

// Get retrieves one run by its ID
func (r *RunRepository) Get(ctx context.Context, runID string) (*models.RunStats, error) {
	query := `
		SELECT run_id, started_at, finished_at, status, error,
			   campaigns_fetched, campaigns_eligible, campaigns_selected,
			   leads_backed_up, leads_deleted, leads_failed,
			   report_file, backup_file, log_file
		FROM prune_runs
		WHERE run_id = $1
	`

	var stats models.RunStats

	err := r.db.Pool().QueryRow(ctx, query, runID).Scan(
		&stats.RunID,
		&stats.StartedAt,
		&stats.FinishedAt,
		&stats.Status,
		&stats.Error,
		&stats.CampaignsFetched,
		&stats.CampaignsEligible,
		&stats.CampaignsSelected,
		&stats.LeadsBackedUp,
		&stats.LeadsDeleted,
		&stats.LeadsFailed,
		&stats.ReportFile,
		&stats.BackupFile,
		&stats.LogFile,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("prune run %s not found", runID)
		}
		return nil, fmt.Errorf("failed to get prune run: %w", err)
	}

	return &stats, nil
}

// ListRecent retrieves the most recent runs, newest first
func (r *RunRepository) ListRecent(ctx context.Context, limit int) ([]*models.RunStats, error) {
	query := `
		SELECT run_id, started_at, finished_at, status, error,
			   campaigns_fetched, campaigns_eligible, campaigns_selected,
			   leads_backed_up, leads_deleted, leads_failed,
			   report_file, backup_file, log_file
		FROM prune_runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.db.Pool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list prune runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.RunStats
	for rows.Next() {
		var stats models.RunStats

		err := rows.Scan(
			&stats.RunID,
			&stats.StartedAt,
			&stats.FinishedAt,
			&stats.Status,
			&stats.Error,
			&stats.CampaignsFetched,
			&stats.CampaignsEligible,
			&stats.CampaignsSelected,
			&stats.LeadsBackedUp,
			&stats.LeadsDeleted,
			&stats.LeadsFailed,
			&stats.ReportFile,
			&stats.BackupFile,
			&stats.LogFile,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prune run: %w", err)
		}

		runs = append(runs, &stats)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prune runs: %w", err)
	}

	return runs, nil
}

// TotalLeadsDeleted sums the deleted lead count across all successful runs
func (r *RunRepository) TotalLeadsDeleted(ctx context.Context) (int64, error) {
	query := `
		SELECT COALESCE(SUM(leads_deleted), 0)
		FROM prune_runs
		WHERE status = 'success'
	`

	var total int64
	if err := r.db.Pool().QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum deleted leads: %w", err)
	}

	return total, nil
}
