package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lead-pruner/internal/config"
	"github.com/lead-pruner/internal/models"
)

// Notifier delivers a run report to the operators.
type Notifier interface {
	Send(ctx context.Context, subject, body string, attachments []string) error
}

// RunReporter composes and sends the end-of-run notification. Exactly one
// notification goes out per run, success or failure; a failed send is
// logged and never changes the run outcome.
type RunReporter struct {
	notifier Notifier
	cfg      config.PruningConfig
	logger   logrus.FieldLogger
}

// NewRunReporter creates a run reporter. A nil notifier disables email; the
// report then only reaches the log.
func NewRunReporter(notifier Notifier, cfg config.PruningConfig, logger logrus.FieldLogger) *RunReporter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &RunReporter{notifier: notifier, cfg: cfg, logger: logger}
}

// ReportSuccess sends the success summary with the eligibility report,
// backup file and run log attached.
func (r *RunReporter) ReportSuccess(ctx context.Context, stats *models.RunStats) {
	subject := fmt.Sprintf("SmartLead Deletion Complete - %s", stats.FinishedAt.Format("2006-01-02"))

	var body strings.Builder
	body.WriteString("SmartLead lead deletion run completed successfully.\n\n")
	r.writeSummary(&body, stats)
	r.writeConfiguration(&body)
	attachments := r.writeAttachments(&body, stats)

	r.send(ctx, subject, body.String(), attachments)
}

// ReportFailure sends the failure notification with whatever artifacts the
// run produced before stopping.
func (r *RunReporter) ReportFailure(ctx context.Context, stats *models.RunStats, runErr error) {
	subject := fmt.Sprintf("SmartLead Deletion FAILED - %s", stats.FinishedAt.Format("2006-01-02"))

	var body strings.Builder
	body.WriteString("SmartLead lead deletion run FAILED.\n\n")
	fmt.Fprintf(&body, "Error: %v\n\n", runErr)
	r.writeSummary(&body, stats)
	r.writeConfiguration(&body)
	attachments := r.writeAttachments(&body, stats)

	r.send(ctx, subject, body.String(), attachments)
}

func (r *RunReporter) writeSummary(body *strings.Builder, stats *models.RunStats) {
	body.WriteString("=== EXECUTION SUMMARY ===\n")
	fmt.Fprintf(body, "Run ID: %s\n", stats.RunID)
	fmt.Fprintf(body, "Started: %s\n", stats.StartedAt.UTC().Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(body, "Finished: %s\n", stats.FinishedAt.UTC().Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(body, "Duration: %s\n\n", stats.Duration().Round(time.Second))
	fmt.Fprintf(body, "Campaigns fetched: %d\n", stats.CampaignsFetched)
	fmt.Fprintf(body, "Campaigns eligible: %d\n", stats.CampaignsEligible)
	fmt.Fprintf(body, "Campaigns selected: %d\n", stats.CampaignsSelected)
	fmt.Fprintf(body, "Leads backed up: %d\n", stats.LeadsBackedUp)
	fmt.Fprintf(body, "Leads deleted: %d\n", stats.LeadsDeleted)
	fmt.Fprintf(body, "Leads failed: %d\n\n", stats.LeadsFailed)

	if runURL := actionsRunURL(); runURL != "" {
		fmt.Fprintf(body, "GitHub Actions run: %s\n\n", runURL)
	}
}

func (r *RunReporter) writeConfiguration(body *strings.Builder) {
	body.WriteString("=== CONFIGURATION USED ===\n")
	fmt.Fprintf(body, "Target leads: %d\n", r.cfg.TargetLeads)
	fmt.Fprintf(body, "Days without activity: %d\n", r.cfg.DaysWithoutActivity)
	fmt.Fprintf(body, "Excluded client IDs: %s\n", formatClientIDs(r.cfg.ExcludeClientIDs))
	fmt.Fprintf(body, "Reference timezone: %s\n\n", r.cfg.ReferenceTimezone)
}

// writeAttachments lists the run artifacts in the body and returns the ones
// that exist on disk. A missing artifact is noted but never fails the send.
func (r *RunReporter) writeAttachments(body *strings.Builder, stats *models.RunStats) []string {
	var attachments []string
	body.WriteString("=== ATTACHMENTS ===\n")
	for _, path := range []string{stats.ReportFile, stats.BackupFile, stats.LogFile} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			r.logger.Warnf("[Report] Attachment %s not found, sending without it", path)
			continue
		}
		fmt.Fprintf(body, "- %s\n", path)
		attachments = append(attachments, path)
	}
	if len(attachments) == 0 {
		body.WriteString("(none)\n")
	}
	return attachments
}

func (r *RunReporter) send(ctx context.Context, subject, body string, attachments []string) {
	if r.notifier == nil {
		r.logger.Infof("[Report] Email disabled, skipping notification %q", subject)
		return
	}
	if err := r.notifier.Send(ctx, subject, body, attachments); err != nil {
		r.logger.Errorf("[Report] Failed to send notification email: %v", err)
		return
	}
	r.logger.Infof("[Report] Notification sent: %s", subject)
}

// actionsRunURL builds the link to the current GitHub Actions run when the
// standard workflow variables are present.
func actionsRunURL() string {
	repository := os.Getenv("GITHUB_REPOSITORY")
	runID := os.Getenv("GITHUB_RUN_ID")
	if repository == "" || runID == "" {
		return ""
	}
	server := os.Getenv("GITHUB_SERVER_URL")
	if server == "" {
		server = "https://github.com"
	}
	return fmt.Sprintf("%s/%s/actions/runs/%s", server, repository, runID)
}

func formatClientIDs(ids []int64) string {
	if len(ids) == 0 {
		return "none"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
