package models

import (
	"time"

	"github.com/lead-pruner/internal/types"
)

// Campaign represents a campaign exactly as returned by the SmartLead
// campaign list endpoint. Timestamps stay raw strings until the filter
// parses them; a malformed value must not fail the whole fetch.
type Campaign struct {
	ID        int64  `json:"id"`
	ClientID  *int64 `json:"client_id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CreatedAtTime parses the campaign creation timestamp. SmartLead emits
// RFC 3339 timestamps with millisecond precision ("2024-01-02T15:04:05.000Z").
func (c *Campaign) CreatedAtTime() (time.Time, error) {
	return time.Parse(time.RFC3339, c.CreatedAt)
}

// UpdatedAtTime parses the campaign last-update timestamp.
func (c *Campaign) UpdatedAtTime() (time.Time, error) {
	return time.Parse(time.RFC3339, c.UpdatedAt)
}

// CampaignReport is one row of the eligibility report: a campaign together
// with its analysis counters and the inclusion decision for this run.
// Reports are produced in campaign list order, one per fetched campaign.
type CampaignReport struct {
	CampaignID         int64
	CampaignName       string
	ClientID           *int64
	Status             types.CampaignStatus
	CreatedAtUTC       time.Time
	CreatedAtLocal     time.Time
	UpdatedAtUTC       time.Time
	UpdatedAtLocal     time.Time
	AgeDays            int
	TotalLeads         int
	RepliedLeads       int
	NonRespondingLeads int
	ReplyRate          float64
	Included           bool
	ExclusionReason    string
}
