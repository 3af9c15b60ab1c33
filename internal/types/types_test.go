package types

import (
	"testing"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want CampaignStatus
	}{
		{"already upper", "PAUSED", StatusPaused},
		{"lower case", "completed", StatusCompleted},
		{"mixed case", "Active", StatusActive},
		{"surrounding whitespace", "  STOPPED \n", StatusStopped},
		{"empty", "", CampaignStatus("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeStatus(tt.raw); got != tt.want {
				t.Errorf("NormalizeStatus(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCampaignStatusIsPrunable(t *testing.T) {
	tests := []struct {
		status CampaignStatus
		want   bool
	}{
		{StatusPaused, true},
		{StatusCompleted, true},
		{StatusActive, false},
		{StatusDrafted, false},
		{StatusStopped, false},
		{CampaignStatus("UNKNOWN"), false},
		{CampaignStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsPrunable(); got != tt.want {
				t.Errorf("IsPrunable(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestDeleteOutcomeSucceeded(t *testing.T) {
	if !DeleteOutcomeDeleted.Succeeded() {
		t.Error("deleted outcome should count as success")
	}
	if !DeleteOutcomeAlreadyGone.Succeeded() {
		t.Error("already-gone outcome should count as success")
	}
	if DeleteOutcomeFailed.Succeeded() {
		t.Error("failed outcome should not count as success")
	}
}
