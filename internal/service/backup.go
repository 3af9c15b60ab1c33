package service

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lead-pruner/internal/models"
)

// BackupCollector re-exports every selected campaign and assembles the
// backup set that must reach disk before any deletion starts.
type BackupCollector struct {
	exporter LeadExporter
	logger   logrus.FieldLogger
	now      func() time.Time
}

// NewBackupCollector creates a backup collector.
func NewBackupCollector(exporter LeadExporter, logger logrus.FieldLogger) *BackupCollector {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &BackupCollector{exporter: exporter, logger: logger, now: time.Now}
}

// Collect exports the selected campaigns again and gathers their
// non-responding leads. The export is repeated rather than reused from the
// filter pass so the backup reflects the lead state at backup time. A
// campaign whose export or analysis fails is skipped with a warning; the
// remaining campaigns are still backed up.
func (b *BackupCollector) Collect(ctx context.Context, selected []models.CampaignReport) *models.BackupSet {
	set := &models.BackupSet{}
	seen := make(map[string]bool)

	for _, campaign := range selected {
		export, err := b.exporter.ExportLeads(ctx, campaign.CampaignID)
		if err != nil {
			b.logger.Warnf("[Backup] Lead export failed for campaign %d, skipping: %v", campaign.CampaignID, err)
			continue
		}
		analysis, err := AnalyzeLeads(export)
		if err != nil {
			b.logger.Warnf("[Backup] Skipping campaign %d: %v", campaign.CampaignID, err)
			continue
		}

		for _, column := range export.Header {
			if !seen[column] {
				seen[column] = true
				set.Columns = append(set.Columns, column)
			}
		}

		backupAt := b.now()
		idIdx := export.ColumnIndex("id")
		emailIdx := export.ColumnIndex("email")
		for _, row := range analysis.NonResponding {
			record := models.BackupRecord{
				CampaignID:   campaign.CampaignID,
				CampaignName: campaign.CampaignName,
				BackupAt:     backupAt,
				Fields:       rowFields(export.Header, row),
			}
			if idIdx >= 0 && idIdx < len(row) {
				record.LeadID = strings.TrimSpace(row[idIdx])
			}
			if emailIdx >= 0 && emailIdx < len(row) {
				record.Email = row[emailIdx]
			}
			set.Records = append(set.Records, record)
		}
		b.logger.Infof("[Backup] Collected %d leads from campaign %d (%s)",
			analysis.NonRespondingCount(), campaign.CampaignID, campaign.CampaignName)
	}

	b.logger.Infof("[Backup] Collected %d leads from %d campaigns", len(set.Records), len(selected))
	return set
}

func rowFields(header []string, row []string) map[string]string {
	fields := make(map[string]string, len(header))
	for i, column := range header {
		if i < len(row) {
			fields[column] = row[i]
		}
	}
	return fields
}
