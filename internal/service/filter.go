package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lead-pruner/internal/config"
	"github.com/lead-pruner/internal/models"
	"github.com/lead-pruner/internal/types"
)

// LeadExporter downloads the full lead export of one campaign.
type LeadExporter interface {
	ExportLeads(ctx context.Context, campaignID int64) (*models.LeadExport, error)
}

// CampaignFilter decides which campaigns are eligible for pruning and
// produces the eligibility report. Every fetched campaign gets exactly one
// report row, in list order, whether it passes or not.
type CampaignFilter struct {
	exporter LeadExporter
	cfg      config.PruningConfig
	location *time.Location
	logger   logrus.FieldLogger
	now      func() time.Time
}

// NewCampaignFilter creates a campaign filter. The reference timezone must
// be a valid IANA name; ages are measured against the current day in that
// zone, not in UTC.
func NewCampaignFilter(exporter LeadExporter, cfg config.PruningConfig, logger logrus.FieldLogger) (*CampaignFilter, error) {
	location, err := time.LoadLocation(cfg.ReferenceTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid reference timezone %q: %w", cfg.ReferenceTimezone, err)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CampaignFilter{
		exporter: exporter,
		cfg:      cfg,
		location: location,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// FilterCampaigns analyzes every campaign and splits the report rows into
// the eligible subset and the full set. Per-campaign failures (bad
// timestamp, failed export, malformed export) exclude that campaign and
// never fail the whole pass.
func (f *CampaignFilter) FilterCampaigns(ctx context.Context, campaigns []models.Campaign) (eligible, all []models.CampaignReport) {
	now := f.now()
	for _, campaign := range campaigns {
		report := f.analyzeCampaign(ctx, campaign, now)
		all = append(all, report)
		if report.Included {
			eligible = append(eligible, report)
		}
	}
	f.logger.Infof("[Filter] %d of %d campaigns eligible for deletion", len(eligible), len(all))
	return eligible, all
}

func (f *CampaignFilter) analyzeCampaign(ctx context.Context, campaign models.Campaign, now time.Time) models.CampaignReport {
	report := models.CampaignReport{
		CampaignID:   campaign.ID,
		CampaignName: campaign.Name,
		ClientID:     campaign.ClientID,
		Status:       types.NormalizeStatus(campaign.Status),
	}

	// Timestamps are rendered on every report row that carries them, even
	// for excluded campaigns. Only created_at is load-bearing: the update
	// timestamp is informational and an unparsable value stays blank.
	createdAt, createdErr := campaign.CreatedAtTime()
	if createdErr == nil {
		report.CreatedAtUTC = createdAt.UTC()
		report.CreatedAtLocal = createdAt.In(f.location)
		report.AgeDays = int(now.Sub(createdAt).Hours() / 24)
	}
	if updatedAt, err := campaign.UpdatedAtTime(); err == nil {
		report.UpdatedAtUTC = updatedAt.UTC()
		report.UpdatedAtLocal = updatedAt.In(f.location)
	}

	if campaign.ClientID != nil && f.isExcludedClient(*campaign.ClientID) {
		report.ExclusionReason = fmt.Sprintf("client %d is excluded", *campaign.ClientID)
		return report
	}

	if !report.Status.IsPrunable() {
		report.ExclusionReason = fmt.Sprintf("status %s is not prunable", report.Status)
		return report
	}

	if createdErr != nil {
		f.logger.Warnf("[Filter] Campaign %d has invalid created_at %q: %v", campaign.ID, campaign.CreatedAt, createdErr)
		report.ExclusionReason = "invalid created_at timestamp"
		return report
	}

	if report.AgeDays < f.cfg.DaysWithoutActivity {
		report.ExclusionReason = fmt.Sprintf("created %d days ago, cutoff is %d days", report.AgeDays, f.cfg.DaysWithoutActivity)
		return report
	}

	export, err := f.exporter.ExportLeads(ctx, campaign.ID)
	if err != nil {
		f.logger.Warnf("[Filter] Lead export failed for campaign %d: %v", campaign.ID, err)
		report.ExclusionReason = "lead export failed"
		return report
	}

	analysis, err := AnalyzeLeads(export)
	if err != nil {
		f.logger.Warnf("[Filter] %v", err)
		report.ExclusionReason = "export missing reply_count column"
		return report
	}

	report.TotalLeads = analysis.TotalLeads
	report.RepliedLeads = analysis.RepliedLeads
	report.NonRespondingLeads = analysis.NonRespondingCount()
	if analysis.TotalLeads > 0 {
		report.ReplyRate = float64(analysis.RepliedLeads) / float64(analysis.TotalLeads) * 100
	}
	report.Included = true
	return report
}

func (f *CampaignFilter) isExcludedClient(clientID int64) bool {
	for _, excluded := range f.cfg.ExcludeClientIDs {
		if excluded == clientID {
			return true
		}
	}
	return false
}
