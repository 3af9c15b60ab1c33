// Package types provides common type definitions for the lead pruning system.
package types

import "strings"

// CampaignStatus represents the lifecycle status of a SmartLead campaign
type CampaignStatus string

const (
	// StatusDrafted represents a campaign that was created but never started
	StatusDrafted CampaignStatus = "DRAFTED"
	// StatusActive represents a campaign that is currently sending
	StatusActive CampaignStatus = "ACTIVE"
	// StatusPaused represents a campaign that has been manually paused
	StatusPaused CampaignStatus = "PAUSED"
	// StatusStopped represents a campaign that was stopped before finishing
	StatusStopped CampaignStatus = "STOPPED"
	// StatusCompleted represents a campaign that finished its full sequence
	StatusCompleted CampaignStatus = "COMPLETED"
)

// PrunableStatuses are the campaign statuses whose leads may be deleted.
// Campaigns in any other status are considered still in use.
var PrunableStatuses = []CampaignStatus{StatusPaused, StatusCompleted}

// NormalizeStatus maps a raw API status value onto a CampaignStatus.
// Statuses are compared upper-cased with surrounding whitespace removed.
func NormalizeStatus(raw string) CampaignStatus {
	return CampaignStatus(strings.ToUpper(strings.TrimSpace(raw)))
}

// IsPrunable reports whether a campaign in this status is a deletion candidate.
func (s CampaignStatus) IsPrunable() bool {
	for _, p := range PrunableStatuses {
		if s == p {
			return true
		}
	}
	return false
}

// DeleteOutcome represents the result of a single lead deletion call
type DeleteOutcome string

const (
	// DeleteOutcomeDeleted represents a lead removed by this call
	DeleteOutcomeDeleted DeleteOutcome = "deleted"
	// DeleteOutcomeAlreadyGone represents a lead that was already absent remotely (HTTP 404)
	DeleteOutcomeAlreadyGone DeleteOutcome = "already_gone"
	// DeleteOutcomeFailed represents a lead that could not be removed
	DeleteOutcomeFailed DeleteOutcome = "failed"
)

// Succeeded reports whether the outcome counts as a successful removal.
// Deleting a lead that is already gone satisfies the same end state.
func (o DeleteOutcome) Succeeded() bool {
	return o == DeleteOutcomeDeleted || o == DeleteOutcomeAlreadyGone
}

// RunStatus represents the terminal state of a pruning run
type RunStatus string

const (
	// RunStatusSuccess represents a run that completed every pipeline stage
	RunStatusSuccess RunStatus = "success"
	// RunStatusFailed represents a run halted by a pipeline error
	RunStatusFailed RunStatus = "failed"
)
