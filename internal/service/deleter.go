package service

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/lead-pruner/internal/models"
	"github.com/lead-pruner/internal/types"
)

// LeadDeleter removes a single lead from a campaign on the remote side.
type LeadDeleter interface {
	DeleteLead(ctx context.Context, campaignID int64, leadID string) (types.DeleteOutcome, error)
}

// DeletionResult aggregates one deletion pass over the backup set. Every
// record lands in exactly one bucket, so Deleted + AlreadyGone + Failed
// always equals the number of records processed.
type DeletionResult struct {
	Deleted     int
	AlreadyGone int
	Failed      int
}

// Succeeded counts record removals, including leads that were already gone
// remotely. A 404 on delete means the desired end state is reached.
func (r *DeletionResult) Succeeded() int {
	return r.Deleted + r.AlreadyGone
}

// DeletionExecutor walks the backup records and deletes each lead remotely,
// pacing calls with a fixed delay between requests.
type DeletionExecutor struct {
	deleter LeadDeleter
	limiter *rate.Limiter
	logger  logrus.FieldLogger
}

// NewDeletionExecutor creates an executor that waits delay between
// consecutive delete calls. A zero delay disables pacing.
func NewDeletionExecutor(deleter LeadDeleter, delay time.Duration, logger logrus.FieldLogger) *DeletionExecutor {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if delay > 0 {
		limiter = rate.NewLimiter(rate.Every(delay), 1)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &DeletionExecutor{deleter: deleter, limiter: limiter, logger: logger}
}

// DeleteAll deletes every backed-up lead in order. Records missing a
// campaign or lead identifier count as failed without a remote call. One
// failed delete never stops the walk; only context cancellation does,
// returning the partial result alongside the context error.
func (e *DeletionExecutor) DeleteAll(ctx context.Context, records []models.BackupRecord) (*DeletionResult, error) {
	result := &DeletionResult{}
	total := len(records)

	for i, record := range records {
		if record.CampaignID == 0 || strings.TrimSpace(record.LeadID) == "" {
			e.logger.Warnf("[Delete] Record %d/%d (campaign %d, lead %q) is missing an identifier, counting as failed",
				i+1, total, record.CampaignID, record.LeadID)
			result.Failed++
			continue
		}

		if err := e.limiter.Wait(ctx); err != nil {
			return result, err
		}

		outcome, err := e.deleter.DeleteLead(ctx, record.CampaignID, record.LeadID)
		switch {
		case err != nil:
			e.logger.Warnf("[Delete] Failed to delete lead %s from campaign %d: %v",
				record.LeadID, record.CampaignID, err)
			result.Failed++
		case outcome == types.DeleteOutcomeAlreadyGone:
			result.AlreadyGone++
		default:
			result.Deleted++
		}

		if done := i + 1; done%100 == 0 || done == total {
			e.logger.Infof("[Delete] Progress: %d/%d leads processed (%d deleted, %d already gone, %d failed)",
				done, total, result.Deleted, result.AlreadyGone, result.Failed)
		}
	}

	return result, nil
}
