package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lead-pruner/internal/artifact"
	"github.com/lead-pruner/internal/errors"
	"github.com/lead-pruner/internal/models"
	"github.com/lead-pruner/internal/types"
)

// CampaignLister fetches the full campaign inventory.
type CampaignLister interface {
	ListCampaigns(ctx context.Context) ([]models.Campaign, error)
}

// AuditStore mirrors run stats and backup records into a database. The
// mirror is best effort: the CSV on disk is the durable backup, and a store
// failure only produces a warning.
type AuditStore interface {
	RecordRun(ctx context.Context, stats *models.RunStats) error
	RecordBackup(ctx context.Context, runID string, records []models.BackupRecord) error
}

// Pipeline runs one full pruning pass: fetch, analyze, select, back up,
// delete, report. A run stops early when it cannot proceed safely, and the
// backup must be on disk before the first delete call goes out.
type Pipeline struct {
	lister      CampaignLister
	filter      *CampaignFilter
	selector    *CampaignSelector
	backup      *BackupCollector
	deleter     *DeletionExecutor
	reporter    *RunReporter
	artifactDir string
	logger      logrus.FieldLogger
	now         func() time.Time

	// Audit is optional; nil disables the database mirror.
	Audit AuditStore
	// LogFile is the path of the run log, attached to the report email.
	LogFile string
}

// NewPipeline assembles the pruning pipeline from its stages.
func NewPipeline(
	lister CampaignLister,
	filter *CampaignFilter,
	selector *CampaignSelector,
	backup *BackupCollector,
	deleter *DeletionExecutor,
	reporter *RunReporter,
	artifactDir string,
	logger logrus.FieldLogger,
) *Pipeline {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Pipeline{
		lister:      lister,
		filter:      filter,
		selector:    selector,
		backup:      backup,
		deleter:     deleter,
		reporter:    reporter,
		artifactDir: artifactDir,
		logger:      logger,
		now:         time.Now,
	}
}

// Run executes one pruning run and returns its stats. Exactly one
// notification is sent before Run returns, success or failure. The returned
// error is non-nil when the run failed; the failure notification has
// already been attempted by then.
func (p *Pipeline) Run(ctx context.Context) (*models.RunStats, error) {
	stats := &models.RunStats{
		RunID:     uuid.NewString(),
		StartedAt: p.now().UTC(),
		Status:    types.RunStatusSuccess,
		LogFile:   p.LogFile,
	}
	p.logger.Infof("[Pipeline] Starting run %s", stats.RunID)

	runErr := p.run(ctx, stats)
	stats.FinishedAt = p.now().UTC()
	if runErr != nil {
		stats.Status = types.RunStatusFailed
		message := runErr.Error()
		stats.Error = &message
		p.logger.Errorf("[Pipeline] Run %s failed after %s: %v", stats.RunID, stats.Duration().Round(time.Second), runErr)
	} else {
		p.logger.Infof("[Pipeline] Run %s completed in %s: %d leads deleted, %d failed",
			stats.RunID, stats.Duration().Round(time.Second), stats.LeadsDeleted, stats.LeadsFailed)
	}

	p.logger.Infof("[Pipeline] === STEP 6: Sending run report ===")
	if runErr != nil {
		p.reporter.ReportFailure(ctx, stats, runErr)
	} else {
		p.reporter.ReportSuccess(ctx, stats)
	}

	p.recordRun(ctx, stats)
	return stats, runErr
}

func (p *Pipeline) run(ctx context.Context, stats *models.RunStats) error {
	p.logger.Infof("[Pipeline] === STEP 1: Fetching campaigns ===")
	campaigns, err := p.lister.ListCampaigns(ctx)
	if err != nil {
		return errors.NewNoCampaignsError(err)
	}
	if len(campaigns) == 0 {
		return errors.NewNoCampaignsError(nil)
	}
	stats.CampaignsFetched = len(campaigns)

	p.logger.Infof("[Pipeline] === STEP 2: Analyzing campaigns ===")
	eligible, all := p.filter.FilterCampaigns(ctx, campaigns)
	stats.CampaignsEligible = len(eligible)

	reportPath, err := artifact.WriteCampaignReport(p.artifactDir, all, stats.StartedAt)
	if err != nil {
		return fmt.Errorf("write eligibility report: %w", err)
	}
	stats.ReportFile = reportPath
	p.logger.Infof("[Pipeline] Eligibility report written to %s", reportPath)

	if len(eligible) == 0 {
		return errors.NewNoEligibleCampaignsError(len(all))
	}

	p.logger.Infof("[Pipeline] === STEP 3: Selecting campaigns for deletion ===")
	selected, planned := p.selector.SelectCampaigns(eligible)
	if len(selected) == 0 {
		return errors.NewEmptySelectionError(p.selector.target)
	}
	stats.CampaignsSelected = len(selected)
	p.logger.Infof("[Pipeline] %d campaigns selected, %d leads planned for deletion", len(selected), planned)

	p.logger.Infof("[Pipeline] === STEP 4: Backing up leads ===")
	set := p.backup.Collect(ctx, selected)
	if len(set.Records) == 0 {
		return errors.NewBackupFailedError("no leads collected for backup, aborting before deletion", nil)
	}
	backupPath, err := artifact.WriteBackup(p.artifactDir, set, stats.StartedAt)
	if err != nil {
		return errors.NewBackupFailedError("backup write failed, aborting before deletion", err)
	}
	stats.BackupFile = backupPath
	stats.LeadsBackedUp = len(set.Records)
	p.logger.Infof("[Pipeline] Backed up %d leads to %s", len(set.Records), backupPath)

	// The CSV above is the durable copy; the database row is a mirror.
	p.recordBackup(ctx, stats.RunID, set.Records)

	p.logger.Infof("[Pipeline] === STEP 5: Deleting leads ===")
	result, err := p.deleter.DeleteAll(ctx, set.Records)
	if result != nil {
		stats.LeadsDeleted = result.Succeeded()
		stats.LeadsFailed = result.Failed
	}
	if err != nil {
		return fmt.Errorf("lead deletion aborted: %w", err)
	}
	p.logger.Infof("[Pipeline] Deletion finished: %d deleted, %d already gone, %d failed",
		result.Deleted, result.AlreadyGone, result.Failed)

	return nil
}

func (p *Pipeline) recordRun(ctx context.Context, stats *models.RunStats) {
	if p.Audit == nil {
		return
	}
	if err := p.Audit.RecordRun(ctx, stats); err != nil {
		p.logger.Warnf("[Pipeline] Failed to record run %s in audit store: %v", stats.RunID, err)
	}
}

func (p *Pipeline) recordBackup(ctx context.Context, runID string, records []models.BackupRecord) {
	if p.Audit == nil {
		return
	}
	if err := p.Audit.RecordBackup(ctx, runID, records); err != nil {
		p.logger.Warnf("[Pipeline] Failed to mirror backup records to audit store: %v", err)
	}
}
