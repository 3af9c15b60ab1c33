package artifact

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lead-pruner/internal/models"
	"github.com/lead-pruner/internal/types"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteCampaignReport(t *testing.T) {
	dir := t.TempDir()
	generatedAt := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	clientID := int64(42)

	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	created := time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)
	updated := time.Date(2025, 2, 20, 10, 0, 0, 0, time.UTC)

	reports := []models.CampaignReport{
		{
			CampaignID:         101,
			CampaignName:       "Q1 Outreach",
			ClientID:           &clientID,
			Status:             types.StatusPaused,
			CreatedAtUTC:       created,
			CreatedAtLocal:     created.In(loc),
			UpdatedAtUTC:       updated,
			UpdatedAtLocal:     updated.In(loc),
			AgeDays:            54,
			TotalLeads:         200,
			RepliedLeads:       15,
			NonRespondingLeads: 185,
			ReplyRate:          7.5,
			Included:           true,
		},
		{
			CampaignID:      102,
			CampaignName:    "Active one",
			Status:          types.StatusActive,
			CreatedAtUTC:    created,
			CreatedAtLocal:  created.In(loc),
			AgeDays:         54,
			TotalLeads:      80,
			ExclusionReason: "status ACTIVE is not prunable",
		},
		{
			CampaignID:      103,
			CampaignName:    "Broken timestamp",
			Status:          types.StatusCompleted,
			ExclusionReason: "invalid created_at timestamp",
		},
	}

	path, err := WriteCampaignReport(dir, reports, generatedAt)
	require.NoError(t, err)
	assert.Equal(t, "all_campaigns_analysis_20250310_093000.csv", filepath.Base(path))

	records := readCSV(t, path)
	require.Len(t, records, 4, "header plus one row per campaign")
	assert.Equal(t, reportHeader, records[0])

	first := records[1]
	assert.Equal(t, "101", first[0])
	assert.Equal(t, "42", first[2])
	assert.Equal(t, "2025-01-15 08:00:00", first[4])
	assert.Equal(t, "2025-01-15 13:30:00", first[5], "local column renders the reference timezone")
	assert.Equal(t, "2025-02-20 10:00:00", first[6])
	assert.Equal(t, "2025-02-20 15:30:00", first[7])
	assert.Equal(t, "54", first[8])
	assert.Equal(t, "7.5%", first[12])
	assert.Equal(t, "Yes", first[13])

	second := records[2]
	assert.Equal(t, "None", second[2], "campaigns without a client render None")
	assert.Equal(t, "Unknown", second[6], "missing update timestamp stays Unknown")
	assert.Equal(t, "0.0%", second[12])
	assert.Equal(t, "No", second[13])
	assert.Equal(t, "status ACTIVE is not prunable", second[14])

	third := records[3]
	assert.Equal(t, "Unknown", third[4])
	assert.Equal(t, "Unknown", third[5])
	assert.Equal(t, "Unknown", third[8])
	assert.Equal(t, "No", third[13])
}

func TestWriteBackup(t *testing.T) {
	dir := t.TempDir()
	generatedAt := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	backupAt := time.Date(2025, 3, 10, 9, 31, 12, 0, time.UTC)

	set := &models.BackupSet{
		Columns: []string{"id", "email", "reply_count", "custom_field"},
		Records: []models.BackupRecord{
			{
				CampaignID:   101,
				CampaignName: "Q1 Outreach",
				LeadID:       "9001",
				Email:        "alice@example.com",
				BackupAt:     backupAt,
				Fields: map[string]string{
					"id":           "9001",
					"email":        "alice@example.com",
					"reply_count":  "0",
					"custom_field": "vip",
				},
			},
			{
				CampaignID:   102,
				CampaignName: "Beta List",
				LeadID:       "9002",
				Email:        "bob@example.com",
				BackupAt:     backupAt,
				Fields: map[string]string{
					"id":          "9002",
					"email":       "bob@example.com",
					"reply_count": "0",
				},
			},
		},
	}

	path, err := WriteBackup(dir, set, generatedAt)
	require.NoError(t, err)
	assert.Equal(t, "leads_deletion_backup_20250310_093000.csv", filepath.Base(path))

	records := readCSV(t, path)
	require.Len(t, records, 3)

	wantHeader := []string{"id", "email", "reply_count", "custom_field", "Campaign ID", "Campaign Name", "Backup Timestamp"}
	assert.Equal(t, wantHeader, records[0])

	assert.Equal(t, []string{"9001", "alice@example.com", "0", "vip", "101", "Q1 Outreach", "2025-03-10 09:31:12"}, records[1])
	assert.Equal(t, "", records[2][3], "columns absent from a campaign export stay empty")
	assert.Equal(t, "102", records[2][4])
}

func TestWriteBackupEmptySet(t *testing.T) {
	dir := t.TempDir()

	set := &models.BackupSet{Columns: []string{"id", "email"}}
	path, err := WriteBackup(dir, set, time.Now())
	require.NoError(t, err)

	records := readCSV(t, path)
	require.Len(t, records, 1, "an empty set still writes the header")
}
