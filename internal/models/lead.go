package models

import "time"

// LeadExport holds one campaign's lead export exactly as served by the API:
// the CSV header in its original order plus the raw data rows.
type LeadExport struct {
	CampaignID int64
	Header     []string
	Rows       [][]string
}

// ColumnIndex returns the position of a named export column, or -1 when the
// export does not carry that column.
func (e *LeadExport) ColumnIndex(name string) int {
	for i, h := range e.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// LeadCount returns the number of data rows in the export.
func (e *LeadExport) LeadCount() int {
	return len(e.Rows)
}

// BackupRecord is one lead preserved before deletion, tagged with the
// campaign it came from and the time it was backed up.
type BackupRecord struct {
	CampaignID   int64             `json:"campaignId" db:"campaign_id"`
	CampaignName string            `json:"campaignName" db:"campaign_name"`
	LeadID       string            `json:"leadId" db:"lead_id"`
	Email        string            `json:"email" db:"email"`
	BackupAt     time.Time         `json:"backupAt" db:"backup_at"`
	Fields       map[string]string `json:"fields" db:"fields"`
}

// BackupSet is the full collection handed to the backup writer: every record
// from every selected campaign, plus the union of export columns in
// first-seen order. Exports of different campaigns may carry different
// custom columns, so the union is computed while collecting.
type BackupSet struct {
	Columns []string
	Records []BackupRecord
}
