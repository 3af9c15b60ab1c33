package models

import (
	"time"

	"github.com/lead-pruner/internal/types"
)

// RunStats aggregates the counters reported and persisted at the end of a
// pruning run. Counters are owned by the pipeline; stages report their
// results back instead of mutating shared state.
type RunStats struct {
	RunID             string          `json:"runId" db:"run_id"`
	StartedAt         time.Time       `json:"startedAt" db:"started_at"`
	FinishedAt        time.Time       `json:"finishedAt" db:"finished_at"`
	Status            types.RunStatus `json:"status" db:"status"`
	Error             *string         `json:"error,omitempty" db:"error"`
	CampaignsFetched  int             `json:"campaignsFetched" db:"campaigns_fetched"`
	CampaignsEligible int             `json:"campaignsEligible" db:"campaigns_eligible"`
	CampaignsSelected int             `json:"campaignsSelected" db:"campaigns_selected"`
	LeadsBackedUp     int             `json:"leadsBackedUp" db:"leads_backed_up"`
	LeadsDeleted      int             `json:"leadsDeleted" db:"leads_deleted"`
	LeadsFailed       int             `json:"leadsFailed" db:"leads_failed"`
	ReportFile        string          `json:"reportFile" db:"report_file"`
	BackupFile        string          `json:"backupFile" db:"backup_file"`
	LogFile           string          `json:"logFile" db:"log_file"`
}

// Duration returns the wall-clock duration of the run.
func (s *RunStats) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}
