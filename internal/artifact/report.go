// Package artifact writes the CSV artifacts of a pruning run: the campaign
// eligibility report and the lead deletion backup. File names carry the run
// timestamp so consecutive runs never overwrite each other.
package artifact

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lead-pruner/internal/models"
)

// fileTimestampFormat names artifacts after the run start time
const fileTimestampFormat = "20060102_150405"

// reportHeader is the fixed column set of the eligibility report
var reportHeader = []string{
	"Campaign ID",
	"Campaign Name",
	"Client ID",
	"Status",
	"Created At (UTC)",
	"Created At (Local)",
	"Updated At (UTC)",
	"Updated At (Local)",
	"Days Since Creation",
	"Total Leads",
	"Leads with Replies",
	"Leads without Replies",
	"Reply Rate (%)",
	"Included in Deletion",
	"Exclusion Reason",
}

// WriteCampaignReport writes the eligibility report, one row per fetched
// campaign in list order, and returns the file path.
func WriteCampaignReport(dir string, reports []models.CampaignReport, generatedAt time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("all_campaigns_analysis_%s.csv", generatedAt.Format(fileTimestampFormat)))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create campaign report: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(reportHeader); err != nil {
		return "", fmt.Errorf("write campaign report header: %w", err)
	}

	for _, r := range reports {
		if err := writer.Write(reportRow(r)); err != nil {
			return "", fmt.Errorf("write campaign report row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush campaign report: %w", err)
	}

	return path, nil
}

func reportRow(r models.CampaignReport) []string {
	clientID := "None"
	if r.ClientID != nil {
		clientID = strconv.FormatInt(*r.ClientID, 10)
	}

	createdUTC := "Unknown"
	createdLocal := "Unknown"
	ageDays := "Unknown"
	if !r.CreatedAtUTC.IsZero() {
		createdUTC = r.CreatedAtUTC.Format("2006-01-02 15:04:05")
		createdLocal = r.CreatedAtLocal.Format("2006-01-02 15:04:05")
		ageDays = strconv.Itoa(r.AgeDays)
	}

	updatedUTC := "Unknown"
	updatedLocal := "Unknown"
	if !r.UpdatedAtUTC.IsZero() {
		updatedUTC = r.UpdatedAtUTC.Format("2006-01-02 15:04:05")
		updatedLocal = r.UpdatedAtLocal.Format("2006-01-02 15:04:05")
	}

	included := "No"
	if r.Included {
		included = "Yes"
	}

	return []string{
		strconv.FormatInt(r.CampaignID, 10),
		r.CampaignName,
		clientID,
		string(r.Status),
		createdUTC,
		createdLocal,
		updatedUTC,
		updatedLocal,
		ageDays,
		strconv.Itoa(r.TotalLeads),
		strconv.Itoa(r.RepliedLeads),
		strconv.Itoa(r.NonRespondingLeads),
		fmt.Sprintf("%.1f%%", r.ReplyRate),
		included,
		r.ExclusionReason,
	}
}
